package composite

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes the composite as a JSON object with keys in
// enumeration order. Ordinal composites encode as objects too; see the codec
// package for an array rendering.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, val := range v.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		enc, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
