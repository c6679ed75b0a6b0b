package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
)

// ErrUnknownField is wrapped when a key names no column of the record.
var ErrUnknownField = errors.New("unknown field")

var fieldIndexes sync.Map // reflect.Type -> map[string]int

// jsonFields maps json names to struct field indexes for t.
func jsonFields(t reflect.Type) map[string]int {
	if m, ok := fieldIndexes.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			m[name] = i
		}
	}
	fieldIndexes.Store(t, m)
	return m
}

func field(rec any, key string) (reflect.Value, bool) {
	rv := reflect.ValueOf(rec).Elem()
	i, ok := jsonFields(rv.Type())[key]
	if !ok {
		return reflect.Value{}, false
	}
	return rv.Field(i), true
}

func fieldValue(rec any, key string) catalog.Value {
	f, ok := field(rec, key)
	if !ok {
		return catalog.Value{}
	}
	switch x := f.Interface().(type) {
	case *string:
		return catalog.Text(x)
	case string:
		return catalog.Text(&x)
	case *float64:
		return catalog.Number(x)
	case *bool:
		return catalog.Flag(x)
	case time.Time:
		if x.IsZero() {
			return catalog.Value{}
		}
		return catalog.Instant(x)
	}
	return catalog.Value{}
}

// setField assigns v (nil, string, float64, int, bool) to the field named key,
// converting strings for numeric and boolean fields. Empty strings clear
// nullable fields.
func setField(rec any, key string, v any) error {
	f, ok := field(rec, key)
	if !ok || !f.CanSet() {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" && f.Kind() == reflect.Pointer {
		v = nil
	}
	switch f.Interface().(type) {
	case *string:
		if v == nil {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		s := fmt.Sprint(v)
		f.Set(reflect.ValueOf(&s))
	case string:
		if v == nil {
			f.SetString("")
			return nil
		}
		f.SetString(fmt.Sprint(v))
	case *float64:
		if v == nil {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		n, err := toFloat(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		f.Set(reflect.ValueOf(&n))
	case *bool:
		if v == nil {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		f.Set(reflect.ValueOf(&b))
	default:
		return fmt.Errorf("%w: %s is not writable", ErrUnknownField, key)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", "."), 64)
	}
	return 0, fmt.Errorf("cannot use %T as number", v)
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	}
	return false, fmt.Errorf("cannot use %T as boolean", v)
}

// forEachStringField calls fn with the address of every *string field of rec.
func forEachStringField(rec any, fn func(**string)) {
	rv := reflect.ValueOf(rec).Elem()
	for i := 0; i < rv.NumField(); i++ {
		if p, ok := rv.Field(i).Addr().Interface().(**string); ok {
			fn(p)
		}
	}
}
