// Package catalog describes the two record shapes shown in the grid: which
// columns exist, how they are labelled, typed, searched and edited.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity names one of the two managed record kinds.
type Entity string

const (
	Apartments Entity = "apartments"
	Clients    Entity = "clients"
)

// ParseEntity accepts "apartments" or "clients".
func ParseEntity(s string) (Entity, error) {
	switch Entity(strings.ToLower(strings.TrimSpace(s))) {
	case Apartments:
		return Apartments, nil
	case Clients:
		return Clients, nil
	}
	return "", fmt.Errorf("unknown entity %q", s)
}

// Table is the backend table holding the entity's rows.
func (e Entity) Table() string {
	if e == Clients {
		return "clientes"
	}
	return "apartamentos"
}

// Resource is the permission resource guarding the entity.
func (e Entity) Resource() string {
	if e == Clients {
		return "client"
	}
	return "apartment"
}

// Kind is the value type and display class of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindCurrency
	KindArea
	KindPercent
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindCurrency:
		return "currency"
	case KindArea:
		return "area"
	case KindPercent:
		return "percent"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "text"
}

// MarshalText lets Kind render as its name in JSON.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Numeric reports whether values of k are stored as numbers.
func (k Kind) Numeric() bool {
	return k == KindNumber || k == KindCurrency || k == KindArea || k == KindPercent
}

// Column describes one field of an entity.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// Caption is the long label used in the dossier and the intake form.
	Caption string `json:"caption,omitempty"`
	Kind    Kind   `json:"kind"`
	// Badge columns render as status badges and are never edited inline.
	Badge    bool `json:"badge,omitempty"`
	ReadOnly bool `json:"read_only,omitempty"`
}

// Editable reports whether the inline editor may open this column.
func (c Column) Editable() bool { return !c.Badge && !c.ReadOnly && c.Kind != KindBool }

// Title returns Caption, or Label when no caption is set.
func (c Column) Title() string {
	if c.Caption != "" {
		return c.Caption
	}
	return c.Label
}

// ErrInvalidValue is returned by Parse for input of the wrong type.
var ErrInvalidValue = errors.New("invalid value")

// Parse converts raw editor input into the value stored for the column.
// Blank input clears the field.
func (c Column) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch {
	case c.Kind.Numeric():
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidValue, c.Key, raw)
		}
		return f, nil
	case c.Kind == KindDate:
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a YYYY-MM-DD date", ErrInvalidValue, c.Key, raw)
		}
		return raw, nil
	case c.Kind == KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidValue, c.Key, raw)
		}
		return b, nil
	}
	return raw, nil
}

// DateLayout is the storage format of date columns.
const DateLayout = "2006-01-02"

// Spec is the column catalog of one entity.
type Spec struct {
	Entity  Entity
	Columns []Column
	// SearchAll lists the columns matched when the search column is "all".
	SearchAll []string
	// SearchExtra adds derived text matched by "all" searches.
	SearchExtra func(Row) []string

	index map[string]int
}

func newSpec(e Entity, cols []Column, searchAll []string, extra func(Row) []string) *Spec {
	s := &Spec{Entity: e, Columns: cols, SearchAll: searchAll, SearchExtra: extra, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		s.index[c.Key] = i
	}
	return s
}

// For returns the catalog of e. Unknown entities get the apartment catalog.
func For(e Entity) *Spec {
	if e == Clients {
		return clientSpec
	}
	return apartmentSpec
}

// Identity is the first column: always shown, never pinned.
func (s *Spec) Identity() Column { return s.Columns[0] }

// Column looks up a column by key.
func (s *Spec) Column(key string) (Column, bool) {
	i, ok := s.index[key]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Has reports whether key is a column of the entity.
func (s *Spec) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Position returns the catalog index of key, or -1.
func (s *Spec) Position(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}

// Row is a record the grid can read by column key.
type Row interface {
	RowID() string
	Value(key string) Value
}

// Value is one nullable cell. At most one field is set.
type Value struct {
	Str  *string
	Num  *float64
	Bool *bool
	Time *time.Time
}

func Text(s *string) Value      { return Value{Str: s} }
func Number(f *float64) Value   { return Value{Num: f} }
func Flag(b *bool) Value        { return Value{Bool: b} }
func Instant(t time.Time) Value { return Value{Time: &t} }

// Null reports whether the cell is empty.
func (v Value) Null() bool {
	return v.Str == nil && v.Num == nil && v.Bool == nil && v.Time == nil
}

// String is the text the grid search matches against. Null is "".
func (v Value) String() string {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Num != nil:
		return strconv.FormatFloat(*v.Num, 'f', -1, 64)
	case v.Bool != nil:
		return strconv.FormatBool(*v.Bool)
	case v.Time != nil:
		return v.Time.Format(time.RFC3339)
	}
	return ""
}

// Any returns the cell as a plain Go value (nil, string, float64, bool or time.Time).
func (v Value) Any() any {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Num != nil:
		return *v.Num
	case v.Bool != nil:
		return *v.Bool
	case v.Time != nil:
		return *v.Time
	}
	return nil
}
