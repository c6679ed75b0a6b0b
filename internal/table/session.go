package table

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/records"
)

// State is the grid of one user: entity, search, sort, page, column layout
// and inline editor. Rows are cached until an edit is saved or the entity
// changes.
type State struct {
	mu      sync.Mutex
	src     records.Source
	entity  catalog.Entity
	query   Query
	layouts map[catalog.Entity]*Layout
	editor  Editor
	rows    []catalog.Row
	loaded  bool
}

func NewState(src records.Source) *State {
	s := &State{
		src:     src,
		entity:  catalog.Apartments,
		layouts: map[catalog.Entity]*Layout{},
	}
	s.query = Query{SearchColumn: SearchAll, SortKey: s.spec().Identity().Key, SortOrder: Asc, Page: 1}
	return s
}

func (s *State) spec() *catalog.Spec { return catalog.For(s.entity) }

func (s *State) layout() *Layout {
	l, ok := s.layouts[s.entity]
	if !ok {
		l = NewLayout(s.spec())
		s.layouts[s.entity] = l
	}
	return l
}

// View is the JSON snapshot of a grid page.
type View struct {
	Entity       catalog.Entity   `json:"entity"`
	SearchTerm   string           `json:"search_term"`
	SearchColumn string           `json:"search_column"`
	SortKey      string           `json:"sort_key"`
	SortOrder    Order            `json:"sort_order"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
	Total        int              `json:"total"`
	Columns      []PlacedColumn   `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	Editor       EditorState      `json:"editor"`
}

// View fetches rows when needed and returns the current page.
func (s *State) View(ctx context.Context) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	spec := s.spec()
	res := Paginate(s.rows, spec, s.query)
	s.query.Page = res.Page
	cols := s.layout().Ordered()
	v := &View{
		Entity:       s.entity,
		SearchTerm:   s.query.SearchTerm,
		SearchColumn: s.query.SearchColumn,
		SortKey:      s.query.SortKey,
		SortOrder:    s.query.SortOrder,
		Page:         res.Page,
		TotalPages:   res.TotalPages,
		Total:        res.Total,
		Columns:      cols,
		Rows:         make([]map[string]any, len(res.Items)),
		Editor:       s.editor.State(),
	}
	for i, r := range res.Items {
		v.Rows[i] = rowMap(r, cols)
	}
	return v, nil
}

func rowMap(r catalog.Row, cols []PlacedColumn) map[string]any {
	m := make(map[string]any, len(cols)+1)
	m["id"] = r.RowID()
	for _, c := range cols {
		m[c.Key] = r.Value(c.Key).Any()
	}
	return m
}

func (s *State) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	rows, err := records.Rows(ctx, s.src, s.entity)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.entity, err)
	}
	s.rows = rows
	s.loaded = true
	return nil
}

// Refresh re-fetches the rows and returns the current page. It is what a
// client calls when the grid is (re)opened.
func (s *State) Refresh(ctx context.Context) (*View, error) {
	s.Invalidate()
	return s.View(ctx)
}

// Invalidate forces the next View to re-fetch.
func (s *State) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

// Entity is the entity currently shown.
func (s *State) Entity() catalog.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entity
}

// SetEntity switches the grid. Sort goes back to the identity column, pins
// are cleared, the page resets and any edit is dropped. Each entity keeps
// its own visibility.
func (s *State) SetEntity(e catalog.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e == s.entity {
		return
	}
	s.entity = e
	for _, l := range s.layouts {
		l.ClearPins()
	}
	spec := s.spec()
	s.query.SortKey = spec.Identity().Key
	if s.query.SearchColumn != SearchAll && !spec.Has(s.query.SearchColumn) {
		s.query.SearchColumn = SearchAll
	}
	s.query.Page = 1
	s.editor.Cancel()
	s.loaded = false
	s.rows = nil
}

// Search sets the term and column; the page resets when either changes.
func (s *State) Search(term, column string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if column == "" {
		column = SearchAll
	}
	if column != SearchAll && !s.spec().Has(column) {
		return fmt.Errorf("unknown search column %q", column)
	}
	if term != s.query.SearchTerm || column != s.query.SearchColumn {
		s.query.Page = 1
	}
	s.query.SearchTerm = term
	s.query.SearchColumn = column
	return nil
}

// ToggleSort flips the order on the current key, or sorts ascending by a
// new key.
func (s *State) ToggleSort(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.spec().Has(key) {
		return fmt.Errorf("unknown sort column %q", key)
	}
	if key == s.query.SortKey {
		if s.query.SortOrder == Asc {
			s.query.SortOrder = Desc
		} else {
			s.query.SortOrder = Asc
		}
		return nil
	}
	s.query.SortKey = key
	s.query.SortOrder = Asc
	return nil
}

// SetPage stores the requested page; View clamps it.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	s.query.Page = page
	s.mu.Unlock()
}

// TogglePin pins key when it is not pinned and unpins it otherwise. The
// result reports whether the layout changed.
func (s *State) TogglePin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.layout()
	if l.Unpin(key) {
		return true
	}
	return l.Pin(key)
}

func (s *State) SetVisible(key string, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout().SetVisible(key, visible)
}

func (s *State) SetEditMode(on bool) { s.editor.SetEditMode(on) }

// StartEdit opens a cell with its current cached value.
func (s *State) StartEdit(ctx context.Context, cell Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return err
	}
	for _, r := range s.rows {
		if r.RowID() == cell.RowID {
			return s.editor.Start(s.spec(), cell, r.Value(cell.Column).String())
		}
	}
	return fmt.Errorf("%w: %s", records.ErrNotFound, cell.RowID)
}

func (s *State) SetEditValue(v string) error { return s.editor.SetValue(v) }

func (s *State) CancelEdit() { s.editor.Cancel() }

// SaveEdit commits the open cell. Any save that reached the backend
// invalidates the cached rows, including a superseded or failed one whose
// write may have committed, so the next View shows the stored value.
func (s *State) SaveEdit(ctx context.Context) (Cell, error) {
	s.mu.Lock()
	spec := s.spec()
	s.mu.Unlock()
	cell, err := s.editor.Save(ctx, s.src, spec)
	if errors.Is(err, ErrNoActiveEdit) || errors.Is(err, catalog.ErrInvalidValue) {
		return cell, err
	}
	s.Invalidate()
	return cell, err
}

// Export returns every filtered and sorted row with the visible columns in
// render order.
func (s *State) Export(ctx context.Context) (*catalog.Spec, []PlacedColumn, []catalog.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, nil, nil, err
	}
	spec := s.spec()
	rows := Sort(Filter(s.rows, spec, s.query.SearchTerm, s.query.SearchColumn), spec, s.query.SortKey, s.query.SortOrder)
	return spec, s.layout().Ordered(), rows, nil
}

// Sessions holds one State per user.
type Sessions struct {
	mu     sync.Mutex
	src    records.Source
	states map[uint]*State
}

func NewSessions(src records.Source) *Sessions {
	return &Sessions{src: src, states: map[uint]*State{}}
}

// Get returns the user's grid, creating it on first use.
func (s *Sessions) Get(userID uint) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = NewState(s.src)
		s.states[userID] = st
	}
	return st
}

// Drop forgets the user's grid, e.g. on logout.
func (s *Sessions) Drop(userID uint) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}
