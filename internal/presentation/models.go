// Package presentation holds the list models that widgets bind to.
//
// Models are filled by background workers and read by the UI loop. Every
// update replaces the whole content and then notifies subscribers with an
// immutable snapshot, so a widget never sees a half-filled list.
package presentation

import (
	"slices"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/model"
)

// Grid roles exposed to widgets.
const (
	RoleThumbnail = "thumbnail"
	RoleName      = "name"
	RoleSDF       = "sdf"
	RolePath      = "path"
)

// GridItem is one cell of the model grid.
type GridItem struct {
	ID        string
	Thumbnail string
	Name      string
	SDF       string
}

// Role returns the value bound to a named role.
func (g GridItem) Role(role string) string {
	switch role {
	case RoleThumbnail:
		return g.Thumbnail
	case RoleName:
		return g.Name
	case RoleSDF:
		return g.SDF
	default:
		return ""
	}
}

// listModel is the shared snapshot-and-notify core.
type listModel[T any] struct {
	mu        sync.RWMutex
	items     []T
	listeners []func([]T)
}

func (m *listModel[T]) replaceAll(items []T) {
	snapshot := append([]T(nil), items...)

	m.mu.Lock()
	m.items = snapshot
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(append([]T(nil), snapshot...))
	}
}

func (m *listModel[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

func (m *listModel[T]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *listModel[T]) subscribe(fn func([]T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// GridModel backs the thumbnail grid, keyed by record ID.
type GridModel struct {
	list listModel[GridItem]
}

// NewGridModel returns an empty grid.
func NewGridModel() *GridModel {
	return &GridModel{}
}

// ReplaceAll swaps in new records and notifies subscribers.
func (g *GridModel) ReplaceAll(models []model.DiscoveredModel) {
	items := make([]GridItem, len(models))
	for i, m := range models {
		items[i] = GridItem{
			ID:        m.ID,
			Thumbnail: m.ThumbnailPath,
			Name:      m.DisplayName,
			SDF:       m.DescriptionPath,
		}
	}
	g.list.replaceAll(items)
}

// Items returns the current items.
func (g *GridModel) Items() []GridItem { return g.list.snapshot() }

// Len returns the number of items.
func (g *GridModel) Len() int { return g.list.len() }

// Subscribe registers fn to receive every new snapshot. fn runs on the
// goroutine that called ReplaceAll.
func (g *GridModel) Subscribe(fn func([]GridItem)) { g.list.subscribe(fn) }

// Find returns the item with the given ID.
func (g *GridModel) Find(id string) (GridItem, bool) {
	for _, it := range g.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return GridItem{}, false
}

// PathModel backs the search-path list.
type PathModel struct {
	list listModel[string]
}

// NewPathModel returns an empty list.
func NewPathModel() *PathModel {
	return &PathModel{}
}

// ReplaceAll swaps in new paths and notifies subscribers.
func (p *PathModel) ReplaceAll(paths []string) { p.list.replaceAll(paths) }

// Items returns the current paths.
func (p *PathModel) Items() []string { return p.list.snapshot() }

// Len returns the number of paths.
func (p *PathModel) Len() int { return p.list.len() }

// Subscribe registers fn to receive every new snapshot.
func (p *PathModel) Subscribe(fn func([]string)) { p.list.subscribe(fn) }
