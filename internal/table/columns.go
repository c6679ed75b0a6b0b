package table

import (
	"slices"

	"github.com/diewo77/salescrm/internal/catalog"
)

const (
	// MaxPins is the number of columns that can be pinned at once.
	MaxPins = 3
	// IdentityWidth and PinnedWidth are the sticky widths in pixels.
	IdentityWidth = 160
	PinnedWidth   = 128
)

// Layout tracks which columns of one entity are visible and pinned.
// The identity column is always visible and never pinned.
type Layout struct {
	spec   *catalog.Spec
	pins   []string
	hidden map[string]bool
}

func NewLayout(spec *catalog.Spec) *Layout {
	return &Layout{spec: spec, hidden: map[string]bool{}}
}

// Pin appends key to the pinned list. It returns false, leaving the layout
// unchanged, for the identity column, unknown keys, keys already pinned, or
// when MaxPins columns are pinned.
func (l *Layout) Pin(key string) bool {
	if !l.spec.Has(key) || key == l.spec.Identity().Key || slices.Contains(l.pins, key) || len(l.pins) >= MaxPins {
		return false
	}
	l.pins = append(l.pins, key)
	return true
}

// Unpin removes key, keeping the order of the remaining pins.
func (l *Layout) Unpin(key string) bool {
	i := slices.Index(l.pins, key)
	if i < 0 {
		return false
	}
	l.pins = slices.Delete(l.pins, i, i+1)
	return true
}

// Pinned returns the pinned keys in pin order.
func (l *Layout) Pinned() []string { return slices.Clone(l.pins) }

// ClearPins drops every pin. Visibility is kept.
func (l *Layout) ClearPins() { l.pins = nil }

// SetVisible shows or hides key. Hiding a pinned column unpins it. The
// identity column cannot be hidden.
func (l *Layout) SetVisible(key string, visible bool) bool {
	if !l.spec.Has(key) || key == l.spec.Identity().Key {
		return false
	}
	if visible {
		delete(l.hidden, key)
	} else {
		l.hidden[key] = true
		l.Unpin(key)
	}
	return true
}

func (l *Layout) Visible(key string) bool { return l.spec.Has(key) && !l.hidden[key] }

// PlacedColumn is a column in render order.
type PlacedColumn struct {
	catalog.Column
	Pinned   bool `json:"pinned"`
	Identity bool `json:"identity,omitempty"`
	// Offset is the sticky left offset in pixels; nil for scrolling columns.
	Offset *int `json:"offset,omitempty"`
}

// Ordered lists the identity column, then pinned columns in pin order, then
// the remaining visible columns in catalog order.
func (l *Layout) Ordered() []PlacedColumn {
	id := l.spec.Identity()
	zero := 0
	out := []PlacedColumn{{Column: id, Identity: true, Offset: &zero}}
	for i, key := range l.pins {
		col, _ := l.spec.Column(key)
		off := IdentityWidth + PinnedWidth*i
		out = append(out, PlacedColumn{Column: col, Pinned: true, Offset: &off})
	}
	for _, col := range l.spec.Columns[1:] {
		if l.hidden[col.Key] || slices.Contains(l.pins, col.Key) {
			continue
		}
		out = append(out, PlacedColumn{Column: col})
	}
	return out
}

// Keys returns the keys of Ordered.
func (l *Layout) Keys() []string {
	cols := l.Ordered()
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}
