package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/records"
)

var (
	ErrEditModeOff  = errors.New("edit mode is off")
	ErrNotEditable  = errors.New("column is not editable")
	ErrNoActiveEdit = errors.New("no cell is being edited")
	// ErrEditSuperseded is returned by a save that finished after another
	// edit was started. The newer edit is left untouched.
	ErrEditSuperseded = errors.New("edit superseded by a newer edit")
)

// Cell addresses one editable cell.
type Cell struct {
	RowID  string `json:"row_id"`
	Column string `json:"column"`
}

// Editor is the single-cell inline editor of one grid. Only one cell is
// edited at a time; starting another drops the unsaved value.
type Editor struct {
	mu       sync.Mutex
	enabled  bool
	cell     *Cell
	value    string
	token    uint64
	inflight context.CancelFunc
}

// EditorState is the JSON view of the editor.
type EditorState struct {
	EditMode bool   `json:"edit_mode"`
	Cell     *Cell  `json:"cell,omitempty"`
	Value    string `json:"value,omitempty"`
}

func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := EditorState{EditMode: e.enabled, Value: e.value}
	if e.cell != nil {
		c := *e.cell
		st.Cell = &c
	}
	return st
}

// SetEditMode toggles edit mode. Turning it off cancels any edit.
func (e *Editor) SetEditMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = on
	if !on {
		e.resetLocked()
	}
}

// Start opens cell for editing with its current value. A pending save of
// another edit is cancelled.
func (e *Editor) Start(spec *catalog.Spec, cell Cell, current string) error {
	col, ok := spec.Column(cell.Column)
	if !ok || !col.Editable() {
		return fmt.Errorf("%w: %s", ErrNotEditable, cell.Column)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return ErrEditModeOff
	}
	e.resetLocked()
	e.cell = &cell
	e.value = current
	return nil
}

// SetValue replaces the unsaved value.
func (e *Editor) SetValue(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cell == nil {
		return ErrNoActiveEdit
	}
	e.value = v
	return nil
}

// Cancel drops the edit without touching the backend.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// Save writes the edited value through src. On success the editor is
// cleared and the caller must re-fetch the rows. On failure the edit stays
// open so it can be retried or cancelled.
func (e *Editor) Save(ctx context.Context, src records.Source, spec *catalog.Spec) (Cell, error) {
	e.mu.Lock()
	if e.cell == nil {
		e.mu.Unlock()
		return Cell{}, ErrNoActiveEdit
	}
	cell := *e.cell
	col, _ := spec.Column(cell.Column)
	value, err := col.Parse(e.value)
	if err != nil {
		e.mu.Unlock()
		return cell, err
	}
	token := e.token
	ctx, cancel := context.WithCancel(ctx)
	e.inflight = cancel
	e.mu.Unlock()
	defer cancel()

	err = src.UpdateField(ctx, spec.Entity, cell.RowID, cell.Column, value)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.token != token {
		return cell, ErrEditSuperseded
	}
	e.inflight = nil
	if err != nil {
		return cell, err
	}
	e.cell = nil
	e.value = ""
	return cell, nil
}

// resetLocked clears the edit and invalidates any save still in flight.
func (e *Editor) resetLocked() {
	e.token++
	if e.inflight != nil {
		e.inflight()
		e.inflight = nil
	}
	e.cell = nil
	e.value = ""
}
