// Package tree provides the ordered configuration tree that every stage of
// the resolution pipeline operates on.
//
// A Tree is a mapping from string keys to values that remembers insertion
// order, because declaration order is meaningful for content-type fields,
// taxonomy options, and merge results. Values are scalars (string, int64,
// float64, bool, nil), nested *Tree mappings, or []any sequences. Lookups
// use '/'-delimited path segments and degrade to a caller-supplied default
// instead of failing.
package tree

import "strings"

// Kind classifies a value held in a Tree. Declared values are ambiguous at
// the YAML boundary (a "values" entry may be a scalar, a sequence, or a
// mapping), so coercion passes branch on Kind rather than on ad hoc type
// assertions.
type Kind int

const (
	KindNil Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// KindOf classifies an arbitrary value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNil
	case *Tree:
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// Tree is an insertion-ordered string-keyed mapping.
type Tree struct {
	keys   []string
	values map[string]any
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// IsEmpty reports whether the tree has no keys.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[key]
	return ok
}

// Value returns the value stored under key.
func (t *Tree) Value(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// SetKey stores a value under a single key, appending the key to the order
// if it is new.
func (t *Tree) SetKey(key string, v any) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// DeleteKey removes a key and its value.
func (t *Tree) DeleteKey(key string) {
	if t == nil {
		return
	}
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Get looks up a '/'-delimited path and returns def when any segment is
// absent or an intermediate value is not a mapping.
func (t *Tree) Get(path string, def any) any {
	v, ok := t.Lookup(path)
	if !ok {
		return def
	}
	return v
}

// Lookup looks up a '/'-delimited path and reports whether it resolved.
func (t *Tree) Lookup(path string) (any, bool) {
	if t == nil || path == "" {
		return nil, false
	}
	segments := strings.Split(path, "/")
	current := t
	for i, seg := range segments {
		v, ok := current.values[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		sub, ok := v.(*Tree)
		if !ok {
			return nil, false
		}
		current = sub
	}
	return nil, false
}

// Set writes a value at a '/'-delimited path, creating intermediate
// mappings as needed. Intermediate values that are not mappings are
// replaced. Returns false only when the path is empty.
func (t *Tree) Set(path string, v any) bool {
	if t == nil || path == "" {
		return false
	}
	segments := strings.Split(path, "/")
	current := t
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current.values[seg].(*Tree)
		if !ok {
			next = New()
			current.SetKey(seg, next)
		}
		current = next
	}
	current.SetKey(segments[len(segments)-1], v)
	return true
}

// Subtree returns the mapping at path, or nil when the path is absent or
// does not hold a mapping.
func (t *Tree) Subtree(path string) *Tree {
	v, ok := t.Lookup(path)
	if !ok {
		return nil
	}
	sub, _ := v.(*Tree)
	return sub
}

// GetString returns the string at path, or def.
func (t *Tree) GetString(path, def string) string {
	if s, ok := t.Get(path, def).(string); ok {
		return s
	}
	return def
}

// GetBool returns the bool at path, or def.
func (t *Tree) GetBool(path string, def bool) bool {
	if b, ok := t.Get(path, def).(bool); ok {
		return b
	}
	return def
}

// GetInt returns the integer at path, or def. YAML integers decode as
// int64; JSON round-trips restore them as int64 as well.
func (t *Tree) GetInt(path string, def int64) int64 {
	switch n := t.Get(path, def).(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return def
	}
}

// StringSlice coerces a value into a slice of strings: a scalar becomes a
// one-element slice, a sequence keeps its string elements, anything else
// yields nil.
func StringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case *Tree:
		return nil
	case string:
		return []string{val}
	default:
		return nil
	}
}

// Copy returns a deep copy of the tree.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}
	out := New()
	for _, k := range t.keys {
		out.SetKey(k, CopyValue(t.values[k]))
	}
	return out
}

// CopyValue deep-copies a tree value. Scalars are returned as-is.
func CopyValue(v any) any {
	switch val := v.(type) {
	case *Tree:
		return val.Copy()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports deep equality of two trees, including key order.
func Equal(a, b *Tree) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i, k := range a.keys {
		if b.keys[i] != k {
			return false
		}
		if !valueEqual(a.values[k], b.values[k]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNil:
		return true
	case KindMapping:
		return Equal(a.(*Tree), b.(*Tree))
	case KindSequence:
		sa, sb := a.([]any), b.([]any)
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !valueEqual(sa[i], sb[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
