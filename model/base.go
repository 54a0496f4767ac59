package model

import (
	"fmt"
	"strconv"

	"github.com/mww/fantasy_query/unpack"
)

// Object is implemented by every typed model produced by the unpacker.
type Object interface {
	TypeName() string
	Get(key string) (any, bool)
}

// Base holds the untyped view of a model. Fields keeps every key of the
// source payload, including the ones the model has no typed field for.
// Items is set when the model was built from a sequence. Both are encoded
// next to the typed fields so JSON output loses nothing.
type Base struct {
	Fields map[string]any `json:"fields,omitempty"`
	Items  []any          `json:"items,omitempty"`

	typeName string
}

func newBase(typeName string, v any) Base {
	b := Base{typeName: typeName, Fields: unpack.Flatten(v)}
	if list, ok := v.([]any); ok {
		b.Items = list
	}
	return b
}

func (b *Base) TypeName() string {
	return b.typeName
}

func (b *Base) Get(key string) (any, bool) {
	v, ok := b.Fields[key]
	return v, ok
}

func (b *Base) str(key string) string {
	return toString(b.Fields[key])
}

func (b *Base) num(key string) int {
	return toInt(b.Fields[key])
}

func (b *Base) float(key string) float64 {
	return toFloat(b.Fields[key])
}

func (b *Base) flag(key string) bool {
	return toBool(b.Fields[key])
}

// Yahoo is inconsistent about quoting numbers ("season": "2019", "rank": 1),
// so the conversions below accept either form.

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case string:
		i, err := strconv.Atoi(t)
		if err != nil {
			return int(toFloat(t))
		}
		return i
	default:
		return int(toFloat(v))
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		return toFloat(v) != 0
	}
}

// collect pulls every T out of v. Yahoo collections unpack to slices of
// single-key mappings ([{"team": *Team}, ...]); elements that are already a T
// are taken directly.
func collect[T any](v any, key string) []T {
	var list []any
	switch t := v.(type) {
	case []any:
		list = t
	case map[string]any:
		list = []any{t}
	case T:
		return []T{t}
	default:
		return nil
	}

	result := make([]T, 0, len(list))
	for _, e := range list {
		switch t := e.(type) {
		case T:
			result = append(result, t)
		case map[string]any:
			if m, ok := t[key].(T); ok {
				result = append(result, m)
			}
		}
	}
	return result
}

// child returns the model stored under key, or its zero value.
func child[T any](b *Base, key string) T {
	v, _ := b.Fields[key].(T)
	return v
}
