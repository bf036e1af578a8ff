package composite

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Kind tags keep leaves of different shapes from sharing hash input.
const (
	tagNil byte = iota
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagRef
	tagSlice
	tagArray
	tagStruct
	tagComposite
	tagOther
)

// Hash returns a structural hash of v consistent with Equal: Equal(a, b)
// implies Hash(a) == Hash(b). Composites hash by content regardless of key
// order; other values hash like the leaves they are.
func Hash(v any) uint64 {
	if c, ok := v.(*Value); ok {
		if p, ok := registered.payloadOf(c); ok {
			return p.hash
		}
	}
	return leafHash(v)
}

// leafHash hashes v as an identity-compared leaf, even when v is a composite.
func leafHash(v any) uint64 {
	h := xxhash.New()
	writeLeaf(h, reflect.ValueOf(v))
	return h.Sum64()
}

// hashPayload folds per-entry hashes with addition so that key order does not
// matter. Nested composites contribute their own cached hash.
func hashPayload(p *payload) uint64 {
	var sum uint64
	var buf [8]byte
	h := xxhash.New()
	for _, k := range p.keys {
		h.Reset()
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], Hash(p.values[k]))
		_, _ = h.Write(buf[:])
		sum += h.Sum64()
	}

	h.Reset()
	_, _ = h.Write([]byte{tagComposite})
	binary.LittleEndian.PutUint64(buf[:], uint64(len(p.keys)))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], sum)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func writeLeaf(h *xxhash.Digest, rv reflect.Value) {
	var buf [8]byte
	word := func(tag byte, x uint64) {
		binary.LittleEndian.PutUint64(buf[:], x)
		_, _ = h.Write([]byte{tag})
		_, _ = h.Write(buf[:])
	}

	if !rv.IsValid() {
		_, _ = h.Write([]byte{tagNil})
		return
	}
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			word(tagBool, 1)
		} else {
			word(tagBool, 0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		word(tagInt, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		word(tagUint, rv.Uint())
	case reflect.Float32, reflect.Float64:
		word(tagFloat, floatBits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		word(tagComplex, floatBits(real(c)))
		word(tagComplex, floatBits(imag(c)))
	case reflect.String:
		_, _ = h.Write([]byte{tagString})
		_, _ = h.WriteString(rv.String())
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		word(tagRef, uint64(rv.Pointer()))
	case reflect.Slice:
		word(tagSlice, uint64(rv.Pointer()))
		word(tagSlice, uint64(rv.Len()))
	case reflect.Interface:
		writeLeaf(h, rv.Elem())
	case reflect.Array:
		word(tagArray, uint64(rv.Len()))
		for i := range rv.Len() {
			writeLeaf(h, rv.Index(i))
		}
	case reflect.Struct:
		word(tagStruct, uint64(rv.NumField()))
		for i := range rv.NumField() {
			writeLeaf(h, rv.Field(i))
		}
	default:
		_, _ = h.Write([]byte{tagOther})
	}
}

// floatBits maps every NaN to one pattern; +0 and -0 stay distinct.
func floatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return 0x7ff8000000000001
	}
	return math.Float64bits(f)
}
