package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/spf13/cobra"
)

func newSpawnCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "spawn <description-file>",
		Short: "Send a model description file to the scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			return runtimeError(a.SpawnPath(cmd.Context(), args[0]))
		},
	}
}

func newInsertCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "insert <" + strings.Join(model.ShapeNames(), "|") + ">",
		Short:     "Insert a primitive shape",
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.ShapeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			return runtimeError(a.Insert(cmd.Context(), args[0]))
		},
	}
}

func newPickCommand(load appLoader, picker Picker) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a model interactively and spawn it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			models, err := a.LoadResources(ctx)
			if err != nil {
				return runtimeError(err)
			}

			var spawnable []model.DiscoveredModel
			for _, m := range models {
				if m.Spawnable() {
					spawnable = append(spawnable, m)
				}
			}
			if len(spawnable) == 0 {
				return &ExitError{Code: 1, Message: "no spawnable models found"}
			}

			options := make([]string, len(spawnable))
			for i, m := range spawnable {
				options[i] = fmt.Sprintf("%s (%s)", m.Title(), m.DescriptionPath)
			}
			idx, err := picker.Select(ctx, "Model to spawn:", options)
			if errors.Is(err, ErrAborted) {
				return nil
			}
			if err != nil {
				return runtimeError(err)
			}
			if idx < 0 || idx >= len(spawnable) {
				return &ExitError{Code: 1, Message: "selection out of range"}
			}
			return runtimeError(a.SpawnPath(ctx, spawnable[idx].DescriptionPath))
		},
	}
}
