// Package codec converts JSON and YAML documents to composites and back.
//
// Objects (mappings) become composites with keys in document order, arrays
// (sequences) become ordinal composites, scalars stay plain values. Numbers
// always decode as float64 so that documents compare the same whichever format
// they came from:
//
//	a, _ := codec.DecodeJSON([]byte(`{"id": 1, "tags": ["x"]}`))
//	b, _ := codec.DecodeYAML([]byte("tags: [x]\nid: 1\n"))
//	composite.Equal(a, b) // true
package codec

import (
	"errors"
	"strconv"

	"composite/pkg/composite"
)

// ErrInvalidDocument reports input that is well-formed but cannot be turned
// into a composite, such as an empty document or trailing data.
var ErrInvalidDocument = errors.New("codec: invalid document")

// Elements returns the positional values of an ordinal composite, as built by
// composite.Of. It reports false for any other composite.
func Elements(v *composite.Value) ([]any, bool) {
	raw, ok := v.Get(composite.LengthKey)
	if !ok {
		return nil, false
	}
	n, ok := raw.(int)
	if !ok || n < 0 || v.Len() != n+1 {
		return nil, false
	}
	out := make([]any, n)
	for i := range n {
		elem, ok := v.Get(strconv.Itoa(i))
		if !ok {
			return nil, false
		}
		out[i] = elem
	}
	return out, true
}

// FromPlain converts decoded Go data (map[string]any, []any and scalars, as
// produced by encoding/json) into composites. Maps enumerate in sorted key
// order. Values that are already composites are kept.
func FromPlain(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		converted := make(map[string]any, len(x))
		for k, elem := range x {
			c, err := FromPlain(elem)
			if err != nil {
				return nil, err
			}
			converted[k] = c
		}
		return composite.New(converted)
	case []any:
		items := make([]any, len(x))
		for i, elem := range x {
			c, err := FromPlain(elem)
			if err != nil {
				return nil, err
			}
			items[i] = c
		}
		return composite.Of(items...), nil
	}
	return v, nil
}

// ToPlain converts composites back into plain Go data: ordinal composites
// become []any, other composites map[string]any. Non-composites are returned
// unchanged.
func ToPlain(v any) any {
	c, ok := v.(*composite.Value)
	if !ok || !composite.IsComposite(c) {
		return v
	}
	if elems, ok := Elements(c); ok {
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = ToPlain(elem)
		}
		return out
	}
	out := make(map[string]any, c.Len())
	for k, elem := range c.All() {
		out[k] = ToPlain(elem)
	}
	return out
}
