package composite

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned when a composite is requested for input that
// is nil or not structured.
var ErrInvalidArgument = errors.New("composite: invalid argument")

// LengthKey is the key holding the element count of an ordinal composite.
const LengthKey = "length"

// Field is one key/value pair of a Fields list.
type Field struct {
	Key   string
	Value any
}

// Fields is ordered structured input for New. Use it when key order matters
// for enumeration; equality ignores order either way.
type Fields []Field

// payload is the frozen snapshot behind a composite. It never references the
// Value that wraps it.
type payload struct {
	keys   []string
	values map[string]any
	hash   uint64
}

func newPayload(capacity int) *payload {
	return &payload{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// put keeps the first position of a repeated key and the last value.
func (p *payload) put(key string, value any) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *payload) clone() *payload {
	if p == nil {
		return newPayload(0)
	}
	c := newPayload(len(p.keys))
	for _, k := range p.keys {
		c.put(k, p.values[k])
	}
	return c
}

// Value is an immutable composite. Reads resolve to the snapshot taken when
// it was built; there is no way to modify it.
//
// Only values returned by New, MustNew and Of are composites. A Value made any
// other way reads as empty and compares by identity.
type Value struct {
	p *payload
}

// New builds a composite from a shallow copy of input. Accepted input:
//   - Fields, in the given order
//   - maps with string keys, enumerated in sorted key order
//   - structs and non-nil pointers to structs; exported fields in declaration
//     order, renamed with a `composite:"name"` tag or skipped with `composite:"-"`
//   - non-nil slices and arrays, keyed by decimal index; unlike Of no
//     LengthKey is added
//   - another composite, whose fields are copied
//
// Anything else, including nil, fails with ErrInvalidArgument and registers
// nothing.
func New(input any) (*Value, error) {
	p, err := snapshot(input)
	if err != nil {
		return nil, err
	}
	return wrap(p), nil
}

// MustNew is like New but panics on error. Useful for literals and tests.
func MustNew(input any) *Value {
	v, err := New(input)
	if err != nil {
		panic(err)
	}
	return v
}

// Of builds an ordinal composite: each value keyed by its decimal index, plus
// LengthKey holding the number of values.
func Of(values ...any) *Value {
	p := newPayload(len(values) + 1)
	for i, v := range values {
		p.put(strconv.Itoa(i), v)
	}
	p.put(LengthKey, len(values))
	return wrap(p)
}

func wrap(p *payload) *Value {
	p.hash = hashPayload(p)
	v := &Value{p: p}
	registered.register(v, p)
	return v
}

func snapshot(input any) (*payload, error) {
	switch in := input.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil input", ErrInvalidArgument)
	case *Value:
		p, ok := registered.payloadOf(in)
		if !ok {
			return nil, fmt.Errorf("%w: *composite.Value not built by New or Of", ErrInvalidArgument)
		}
		return p.clone(), nil
	case Fields:
		if in == nil {
			return nil, fmt.Errorf("%w: nil fields", ErrInvalidArgument)
		}
		p := newPayload(len(in))
		for _, f := range in {
			p.put(f.Key, f.Value)
		}
		return p, nil
	case map[string]any:
		if in == nil {
			return nil, fmt.Errorf("%w: nil map", ErrInvalidArgument)
		}
		p := newPayload(len(in))
		for _, k := range slices.Sorted(maps.Keys(in)) {
			p.put(k, in[k])
		}
		return p, nil
	}
	return snapshotReflect(reflect.ValueOf(input))
}

func snapshotReflect(rv reflect.Value) (*payload, error) {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrInvalidArgument, rv.Type())
		}
		switch rv.Elem().Kind() {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
			return snapshotReflect(rv.Elem())
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrInvalidArgument, rv.Type())
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		p := newPayload(len(keys))
		for _, k := range keys {
			p.put(k.String(), rv.MapIndex(k).Interface())
		}
		return p, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrInvalidArgument, rv.Type())
		}
		p := newPayload(rv.Len())
		for i := range rv.Len() {
			p.put(strconv.Itoa(i), rv.Index(i).Interface())
		}
		return p, nil
	case reflect.Struct:
		t := rv.Type()
		p := newPayload(t.NumField())
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("composite"); ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			p.put(name, rv.Field(i).Interface())
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s is not a structured value", ErrInvalidArgument, describe(rv))
}

func describe(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}
	return rv.Type().String()
}

// Get returns the value stored under key.
func (v *Value) Get(key string) (any, bool) {
	if v == nil || v.p == nil {
		return nil, false
	}
	val, ok := v.p.values[key]
	return val, ok
}

// Has reports whether key is one of the composite's keys.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// At returns element i of an ordinal composite.
func (v *Value) At(i int) (any, bool) {
	return v.Get(strconv.Itoa(i))
}

// Keys returns the composite's keys in enumeration order. The slice is a copy.
func (v *Value) Keys() []string {
	if v == nil || v.p == nil {
		return nil
	}
	return slices.Clone(v.p.keys)
}

// Len returns the number of keys.
func (v *Value) Len() int {
	if v == nil || v.p == nil {
		return 0
	}
	return len(v.p.keys)
}

// All iterates over key/value pairs in enumeration order.
func (v *Value) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if v == nil || v.p == nil {
			return
		}
		for _, k := range v.p.keys {
			if !yield(k, v.p.values[k]) {
				return
			}
		}
	}
}

// String renders the composite as {key: value, ...} in enumeration order.
func (v *Value) String() string {
	var b strings.Builder
	b.WriteByte('{')
	i := 0
	for k, val := range v.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, val)
		i++
	}
	b.WriteByte('}')
	return b.String()
}
