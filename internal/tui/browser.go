// Package tui is a terminal browser over the spawner's panels: a path list, a
// model table and a highlighted preview of the selected description.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/luccosta/ign-gazebo/internal/app"
	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/panel"
	"github.com/luccosta/ign-gazebo/internal/presentation"
	"github.com/rivo/tview"
)

// browser is the single mutable state struct for the tview-based UI. Widgets
// are only touched on the tview event loop.
type browser struct {
	ctx      context.Context
	app      *tview.Application
	resource *panel.ResourceSpawner
	insert   *panel.InsertModel
	style    string

	root      *tview.Flex
	pathList  *tview.List
	table     *tview.Table
	preview   *tview.TextView
	spawnLog  *tview.TextView
	statusBar *tview.TextView
}

// Run shows the browser until the user quits or ctx is done. Payloads are
// written into the browser's spawn pane while it runs.
func Run(ctx context.Context, a *app.App) error {
	ctx = a.Context(ctx)
	b := newBrowser(ctx, tview.NewApplication(), a.ResourceSpawner(), a.InsertModel(), a.Config().Highlight.Style)
	a.SetOutput(tview.ANSIWriter(b.spawnLog))
	return b.run()
}

func newBrowser(ctx context.Context, tapp *tview.Application, resource *panel.ResourceSpawner, insert *panel.InsertModel, style string) *browser {
	b := &browser{
		ctx:      ctx,
		app:      tapp,
		resource: resource,
		insert:   insert,
		style:    style,
	}

	b.pathList = tview.NewList().ShowSecondaryText(false)
	b.pathList.SetBorder(true).SetTitle(" Resource paths ")

	b.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	b.table.SetBorder(true).SetTitle(" Models ")
	b.table.SetSelectionChangedFunc(func(row, _ int) { b.showPreview(row) })
	b.table.SetSelectedFunc(func(row, _ int) { b.spawnRow(row) })

	b.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(false)
	b.preview.SetBorder(true).SetTitle(" Description ")

	b.spawnLog = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(500).
		SetChangedFunc(func() { b.app.Draw() })
	b.spawnLog.SetBorder(true).SetTitle(" Spawned ")

	b.statusBar = tview.NewTextView().SetDynamicColors(true)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.table, 0, 2, true).
		AddItem(b.preview, 0, 2, false).
		AddItem(b.spawnLog, 0, 1, false)
	main := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(b.pathList, 0, 1, false).
		AddItem(right, 0, 3, true)
	b.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, true).
		AddItem(b.statusBar, 1, 0, false)

	b.renderTable(nil)
	b.setStatus("[yellow::-]Loading...[-:-:-]")

	resource.Paths().Subscribe(func(paths []string) {
		b.app.QueueUpdateDraw(func() { b.renderPaths(paths) })
	})
	resource.Grid().Subscribe(func(items []presentation.GridItem) {
		b.app.QueueUpdateDraw(func() {
			b.renderTable(items)
			b.setStatus(statusText(resource.Paths().Len(), len(items), resource.Source()))
		})
	})

	b.app.SetInputCapture(b.handleKey)
	return b
}

func (b *browser) run() error {
	go b.waitLoad(b.resource.Activate(b.ctx))
	go b.waitLoad(b.insert.Activate(b.ctx))
	defer b.resource.Deactivate()
	defer b.insert.Deactivate()

	stop := context.AfterFunc(b.ctx, b.app.Stop)
	defer stop()

	return b.app.SetRoot(b.root, true).SetFocus(b.table).Run()
}

func (b *browser) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	act := keyAction(ev)
	switch act {
	case actionNone:
		return ev
	case actionQuit:
		b.app.Stop()
	case actionReload:
		b.setStatus("[yellow::-]Rescanning...[-:-:-]")
		go b.waitLoad(b.resource.Activate(b.ctx))
	default:
		if shape, ok := shapeFor(act); ok {
			go b.report("insert "+shape, b.insert.OnModeAsync(b.ctx, shape))
		}
	}
	return nil
}

// waitLoad reports a failed panel load on the status bar.
func (b *browser) waitLoad(done <-chan error) {
	if err, ok := <-done; ok && err != nil {
		ctxlog.FromContext(b.ctx).Warn("Browser load failed.", "error", err)
		b.app.QueueUpdateDraw(func() {
			b.setStatus(fmt.Sprintf("[red::-]Load failed: %s[-:-:-]", tview.Escape(err.Error())))
		})
	}
}

// report shows the outcome of a spawn job.
func (b *browser) report(what string, done <-chan error) {
	err := <-done
	b.app.QueueUpdateDraw(func() {
		if err != nil {
			b.setStatus(fmt.Sprintf("[red::-]%s failed: %s[-:-:-]", what, tview.Escape(err.Error())))
			return
		}
		b.setStatus(fmt.Sprintf("[green::-]%s done[-:-:-]", tview.Escape(what)))
	})
}

func (b *browser) renderPaths(paths []string) {
	b.pathList.Clear()
	for _, p := range paths {
		b.pathList.AddItem(p, "", 0, nil)
	}
}

func (b *browser) renderTable(items []presentation.GridItem) {
	b.table.Clear()
	for col, h := range tableHeader {
		b.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, row := range modelRows(items) {
		for col, text := range row {
			cell := tview.NewTableCell(tview.Escape(text)).SetExpansion(1)
			if col == 0 {
				cell.SetExpansion(0).SetReference(items[i].ID)
			}
			b.table.SetCell(i+1, col, cell)
		}
	}
	if len(items) > 0 {
		b.table.Select(1, 0)
		b.showPreview(1)
	} else {
		b.preview.SetText("")
	}
}

// itemAt maps a table row to its current grid item through the ID stored on
// the row's first cell. Row 0 is the header; rows whose record left the grid
// since the table was drawn resolve to nothing.
func (b *browser) itemAt(row int) (presentation.GridItem, bool) {
	if row < 1 {
		return presentation.GridItem{}, false
	}
	id, ok := b.table.GetCell(row, 0).GetReference().(string)
	if !ok {
		return presentation.GridItem{}, false
	}
	return b.resource.Grid().Find(id)
}

func (b *browser) showPreview(row int) {
	it, ok := b.itemAt(row)
	if !ok {
		return
	}
	b.preview.SetText(previewText(it.SDF, b.style)).ScrollToBeginning()
}

func (b *browser) spawnRow(row int) {
	it, ok := b.itemAt(row)
	if !ok {
		return
	}
	go b.report("spawn "+it.Name, b.resource.OnResourceSpawn(b.ctx, it.SDF))
}

func (b *browser) setStatus(text string) {
	b.statusBar.SetText(text)
}
