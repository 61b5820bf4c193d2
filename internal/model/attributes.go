package model

import (
	"reflect"
	"sort"
)

// Attributes is a key-value bag attached to a text run. Keys are unique;
// iteration order is irrelevant, so Keys returns them sorted for
// deterministic output.
type Attributes map[string]any

// NewAttributes creates an empty attribute bag.
func NewAttributes() Attributes {
	return make(Attributes)
}

// Get returns the value for key and whether it is present.
func (a Attributes) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (a Attributes) Set(key string, value any) {
	a[key] = value
}

// Has returns true if key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Delete removes key from the bag.
func (a Attributes) Delete(key string) {
	delete(a, key)
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a)
}

// Keys returns all attribute keys in sorted order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the bag. Values are shared; treat
// attribute values as immutable once stored.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a new bag with other's entries layered over a's.
func (a Attributes) Merge(other Attributes) Attributes {
	out := a.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Equal returns true if both bags hold the same keys with equal values.
func (a Attributes) Equal(other Attributes) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || !EqualValues(v, ov) {
			return false
		}
	}
	return true
}

// EqualValues reports deep equality of two attribute values, with a fast
// path for the scalar types that dominate attribute bags.
func EqualValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}
