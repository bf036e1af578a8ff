package codec

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"composite/pkg/composite"
)

// DecodeYAML decodes the first YAML document in data.
func DecodeYAML(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	if node.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return newYAMLDecoder().fromNode(&node)
}

// DecodeYAMLStream decodes every document of a multi-document YAML stream and
// calls fn for each one.
func DecodeYAMLStream(r io.Reader, fn func(any) error) error {
	dec := yaml.NewDecoder(r)
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("codec: decode yaml: %w", err)
		}
		v, err := newYAMLDecoder().fromNode(&node)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// maxAliasExpansion bounds the nodes a single document may produce through
// alias dereferences.
const maxAliasExpansion = 10000

// yamlDecoder holds per-document alias state.
type yamlDecoder struct {
	expanding map[*yaml.Node]bool
	depth     int
	expanded  int
}

func newYAMLDecoder() *yamlDecoder {
	return &yamlDecoder{expanding: make(map[*yaml.Node]bool)}
}

func (d *yamlDecoder) fromNode(n *yaml.Node) (any, error) {
	if d.depth > 0 {
		d.expanded++
		if d.expanded > maxAliasExpansion {
			return nil, fmt.Errorf("%w: alias expansion exceeds %d nodes", ErrInvalidDocument, maxAliasExpansion)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.fromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: unresolved alias at line %d", ErrInvalidDocument, n.Line)
		}
		if d.expanding[n.Alias] {
			return nil, fmt.Errorf("%w: recursive alias %q at line %d", ErrInvalidDocument, n.Value, n.Line)
		}
		d.expanding[n.Alias] = true
		d.depth++
		v, err := d.fromNode(n.Alias)
		d.depth--
		delete(d.expanding, n.Alias)
		return v, err
	case yaml.MappingNode:
		fields := make(composite.Fields, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: non-scalar mapping key at line %d", ErrInvalidDocument, k.Line)
			}
			val, err := d.fromNode(v)
			if err != nil {
				return nil, err
			}
			fields = append(fields, composite.Field{Key: k.Value, Value: val})
		}
		return composite.New(fields)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := d.fromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return composite.Of(items...), nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("codec: decode yaml scalar at line %d: %w", n.Line, err)
		}
		return normalizeScalar(v), nil
	}
	return nil, fmt.Errorf("%w: unsupported yaml node kind %d", ErrInvalidDocument, n.Kind)
}

// normalizeScalar maps YAML scalars onto the types encoding/json produces.
func normalizeScalar(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return v
}
