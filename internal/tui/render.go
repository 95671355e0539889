package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/luccosta/ign-gazebo/internal/presentation"
	"github.com/luccosta/ign-gazebo/internal/registry"
	"github.com/luccosta/ign-gazebo/internal/sink"
	"github.com/rivo/tview"
)

// maxPreviewBytes bounds how much of a description is rendered.
const maxPreviewBytes = 64 * 1024

var tableHeader = []string{"NAME", "DESCRIPTION", "THUMBNAIL"}

// action is what a key press asks the browser to do.
type action int

const (
	actionNone action = iota
	actionQuit
	actionReload
	actionInsertBox
	actionInsertSphere
	actionInsertCylinder
)

// keyAction maps global shortcuts. Enter is handled by the table itself.
func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
	default:
		return actionNone
	}
	switch ev.Rune() {
	case 'q':
		return actionQuit
	case 'r':
		return actionReload
	case 'b':
		return actionInsertBox
	case 's':
		return actionInsertSphere
	case 'c':
		return actionInsertCylinder
	}
	return actionNone
}

// shapeFor returns the keyword an insert action sends.
func shapeFor(a action) (string, bool) {
	switch a {
	case actionInsertBox:
		return "box", true
	case actionInsertSphere:
		return "sphere", true
	case actionInsertCylinder:
		return "cylinder", true
	}
	return "", false
}

// modelRows renders grid items as table cells, one row per item.
func modelRows(items []presentation.GridItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			orDash(it.Role(presentation.RoleName)),
			orDash(it.Role(presentation.RoleSDF)),
			orDash(filepath.Base(it.Role(presentation.RoleThumbnail))),
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" || s == "." {
		return "-"
	}
	return s
}

// previewText reads a description and returns it highlighted as tview
// colour tags.
func previewText(path, style string) string {
	if path == "" {
		return "[gray::-]No description file.[-:-:-]"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("[red::-]Error: %s[-:-:-]", tview.Escape(err.Error()))
	}
	content := string(data)
	if len(content) > maxPreviewBytes {
		content = content[:maxPreviewBytes] + "\n... (truncated at 64KB)"
	}
	return tview.TranslateANSI(sink.Highlight(content, style))
}

// statusText summarises the loaded state and the key bindings.
func statusText(paths, models int, source registry.Source) string {
	return fmt.Sprintf("[blue::b]%d[-:-:-] paths ([gray::-]%s[-:-:-])  [blue::b]%d[-:-:-] models  "+
		"[gray::-]Enter spawn | b box | s sphere | c cylinder | r rescan | q quit[-:-:-]",
		paths, source, models)
}
