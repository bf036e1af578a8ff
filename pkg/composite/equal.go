package composite

import (
	"math"
	"reflect"
)

// IsComposite reports whether v was built by New, MustNew or Of and is still
// registered.
func IsComposite(v any) bool {
	return registered.isRegistered(v)
}

// Equal reports whether a and b are the same value or structurally equal
// composites. Two composites are equal when they have the same key set and,
// for every key, the values are equal composites or the same leaf value.
// A composite never equals a non-composite, and two non-composites are equal
// only when they are the same value.
//
// Equal is total: it never panics, whatever the inputs.
func Equal(a, b any) bool {
	if sameValue(a, b) {
		return true
	}
	ca, ok := a.(*Value)
	if !ok {
		return false
	}
	cb, ok := b.(*Value)
	if !ok {
		return false
	}
	pa, ok := registered.payloadOf(ca)
	if !ok {
		return false
	}
	pb, ok := registered.payloadOf(cb)
	if !ok {
		return false
	}
	return equalPayloads(pa, pb)
}

func equalPayloads(pa, pb *payload) bool {
	if len(pa.keys) != len(pb.keys) {
		return false
	}
	if pa.hash != pb.hash {
		return false
	}
	for _, k := range pa.keys {
		vb, ok := pb.values[k]
		if !ok {
			return false
		}
		va := pa.values[k]
		if IsComposite(va) && IsComposite(vb) {
			if !Equal(va, vb) {
				return false
			}
		} else if !sameValue(va, vb) {
			return false
		}
	}
	return true
}

// sameValue is identity for references and strict equality for values:
// floats treat NaN as equal to itself and keep +0 and -0 apart, values of
// different dynamic types never match.
func sameValue(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case int:
		y, ok := b.(int)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && sameFloat(x, y)
	case *Value:
		y, ok := b.(*Value)
		return ok && x == y
	}
	if b == nil {
		return false
	}
	return sameReflect(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameReflect(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Interface:
		return sameReflect(a.Elem(), b.Elem())
	case reflect.Array:
		for i := range a.Len() {
			if !sameReflect(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range a.NumField() {
			if !sameReflect(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	return x == y && math.Signbit(x) == math.Signbit(y)
}
