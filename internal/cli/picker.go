package cli

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("selection aborted")

// Picker asks the user to choose one of options and returns its index.
type Picker interface {
	Select(ctx context.Context, message string, options []string) (int, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context, message string, options []string) (int, error)

// Select implements Picker.
func (f PickerFunc) Select(ctx context.Context, message string, options []string) (int, error) {
	return f(ctx, message, options)
}

type surveyPicker struct{}

func (surveyPicker) Select(ctx context.Context, message string, options []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return 0, ErrAborted
		}
		return 0, err
	}
	return out, nil
}
