// Package unpack converts decoded Yahoo Fantasy JSON into trees of typed models.
//
// Yahoo encodes most collections as objects keyed by "0".."n-1" with an extra
// "count" key, and most resources as lists of single-key fragments. Unpack
// normalizes the first shape into slices and promotes objects stored under a
// model name (e.g. "game", "team_standings") into the model registered for
// that name.
package unpack

import (
	"strconv"
	"strings"
)

const countKey = "count"

// Constructor builds a typed model from an unpacked mapping or sequence.
type Constructor func(v any) any

// Registry maps model type names (e.g. "Game", "TeamStandings") to their
// constructors. It is built once and only read afterwards.
type Registry map[string]Constructor

// Lookup returns the constructor registered for a payload key. The key is
// tried as-is first and then converted from snake_case to a type name.
func (r Registry) Lookup(key string) (Constructor, bool) {
	if c, ok := r[key]; ok {
		return c, true
	}
	c, ok := r[TypeName(key)]
	return c, ok
}

// TypeName converts a snake_case payload key into the CamelCase type name
// used when registering models: "team_standings" -> "TeamStandings".
func TypeName(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Unpack walks v and returns a tree of the same shape where list-as-map
// objects have become slices and objects under a registered model name have
// become models. Scalars are returned unchanged. Unpack never fails; input it
// does not understand is passed through.
func Unpack(v any, reg Registry) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Unpack(e, reg)
		}
		return out
	case map[string]any:
		if list, ok := ListFromMap(t); ok {
			return Unpack(list, reg)
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			u := Unpack(e, reg)
			if ctor, ok := reg.Lookup(k); ok && promotable(u) {
				u = ctor(u)
			}
			out[k] = u
		}
		return out
	default:
		return v
	}
}

// promotable reports whether an unpacked value can back a model. Scalars
// under a model-named key ("name": "Team A") stay scalars.
func promotable(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// ListFromMap detects Yahoo's list-as-map encoding: a "count" key plus keys
// "0".."n-1" and nothing else. On a match it returns the values ordered by
// index. Gaps, a missing "0", non-canonical numbers ("01") or any other key
// mean the object is a genuine mapping.
func ListFromMap(m map[string]any) ([]any, bool) {
	if _, ok := m[countKey]; !ok {
		return nil, false
	}

	n := len(m) - 1
	list := make([]any, n)
	for k, v := range m {
		if k == countKey {
			continue
		}
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= n || strconv.Itoa(idx) != k {
			return nil, false
		}
		list[idx] = v
	}
	return list, true
}

// Flatten merges the mapping fragments of a Yahoo resource into one mapping.
// Sequences are walked recursively, elements that are not mappings (including
// the empty lists Yahoo scatters between fragments) are skipped and the first
// occurrence of a key wins. A mapping is returned as-is; any other value
// flattens to an empty mapping.
func Flatten(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		out := make(map[string]any)
		flattenInto(out, t)
		return out
	default:
		return map[string]any{}
	}
}

func flattenInto(out map[string]any, list []any) {
	for _, e := range list {
		switch t := e.(type) {
		case map[string]any:
			for k, v := range t {
				if _, seen := out[k]; !seen {
					out[k] = v
				}
			}
		case []any:
			flattenInto(out, t)
		}
	}
}
