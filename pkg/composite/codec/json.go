package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"composite/pkg/composite"
)

// DecodeJSON decodes a single JSON document.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after json document", ErrInvalidDocument)
	}
	return v, nil
}

// DecodeJSONStream decodes a sequence of JSON documents (for example JSON
// lines) and calls fn for each one. It stops at the first error, including
// an error returned by fn.
func DecodeJSONStream(r io.Reader, fn func(any) error) error {
	dec := json.NewDecoder(r)
	for {
		v, err := decodeJSONValue(dec)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("codec: decode json: %w", err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// decodeJSONValue reads one value token by token so object keys keep their
// document order.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		fields := composite.Fields{}
		for dec.More() {
			keyTok, err := nestedToken(dec)
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: object key %v", ErrInvalidDocument, keyTok)
			}
			val, err := decodeNested(dec)
			if err != nil {
				return nil, err
			}
			fields = append(fields, composite.Field{Key: key, Value: val})
		}
		if _, err := nestedToken(dec); err != nil {
			return nil, err
		}
		return composite.New(fields)
	case '[':
		var items []any
		for dec.More() {
			val, err := decodeNested(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		if _, err := nestedToken(dec); err != nil {
			return nil, err
		}
		return composite.Of(items...), nil
	}
	return nil, fmt.Errorf("%w: unexpected %v", ErrInvalidDocument, delim)
}

func decodeNested(dec *json.Decoder) (any, error) {
	v, err := decodeJSONValue(dec)
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return v, err
}

func nestedToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// EncodeJSON encodes v with composites in enumeration order and ordinal
// composites as arrays.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	c, ok := v.(*composite.Value)
	if !ok || !composite.IsComposite(c) {
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("codec: encode json: %w", err)
		}
		buf.Write(enc)
		return nil
	}

	if elems, ok := Elements(c); ok {
		buf.WriteByte('[')
		for i, elem := range elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	buf.WriteByte('{')
	i := 0
	for k, elem := range c.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("codec: encode json: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeJSON(buf, elem); err != nil {
			return err
		}
		i++
	}
	buf.WriteByte('}')
	return nil
}

// Document carries a decoded JSON value inside request and response bodies.
// Unmarshalling builds composites; marshalling renders them back.
type Document struct {
	Value   any
	present bool
}

// NewDocument wraps v for encoding.
func NewDocument(v any) Document {
	return Document{Value: v, present: true}
}

// Present reports whether the document appeared in the decoded input, even
// as null.
func (d Document) Present() bool {
	return d.present
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return EncodeJSON(d.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	d.Value = v
	d.present = true
	return nil
}
