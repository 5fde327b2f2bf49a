package parsetree

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"folint/internal/ast"
)

// fields is a YAML mapping indexed by key, in source order.
type fields struct {
	node   *yaml.Node
	keys   []string
	values map[string]*yaml.Node
}

func mapping(n *yaml.Node) (*fields, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "expected a mapping")
	}
	f := &fields{node: n, values: make(map[string]*yaml.Node, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := f.values[key]; dup {
			return nil, errorAt(n.Content[i], "duplicate key %q", key)
		}
		f.keys = append(f.keys, key)
		f.values[key] = n.Content[i+1]
	}
	return f, nil
}

func (f *fields) get(key string) *yaml.Node { return f.values[key] }

func (f *fields) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *fields) str(key string) string {
	if n := f.values[key]; n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

func (f *fields) boolean(key string) (bool, error) {
	n := f.values[key]
	if n == nil {
		return false, nil
	}
	b, err := strconv.ParseBool(n.Value)
	if err != nil {
		return false, errorAt(n, "%s: expected true or false", key)
	}
	return b, nil
}

// strings decodes a scalar or a sequence of scalars.
func (f *fields) strings(key string) ([]string, error) {
	return scalars(f.values[key])
}

func scalars(n *yaml.Node) ([]string, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}, nil
	}
	items, err := sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		if item.Kind != yaml.ScalarNode {
			return nil, errorAt(item, "expected a name")
		}
		out[i] = item.Value
	}
	return out, nil
}

// pos is the explicit pos: [line, col] of the mapping, or its location
// in the YAML document.
func (f *fields) pos() (ast.Pos, error) {
	n := f.values["pos"]
	if n == nil {
		return position(f.node), nil
	}
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return ast.Pos{}, errorAt(n, "pos: expected [line, col]")
	}
	line, err := strconv.Atoi(n.Content[0].Value)
	if err != nil {
		return ast.Pos{}, errorAt(n, "pos: %v", err)
	}
	col, err := strconv.Atoi(n.Content[1].Value)
	if err != nil {
		return ast.Pos{}, errorAt(n, "pos: %v", err)
	}
	return ast.Pos{Line: line, Col: col}, nil
}

func (f *fields) annotations(at ast.Node) (ast.Annotations, error) {
	raw, err := f.strings("annotations")
	if err != nil {
		return ast.Annotations{}, err
	}
	return ast.ParseAnnotations(at, raw)
}

func sequence(n *yaml.Node) ([]*yaml.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errorAt(n, "expected a list")
	}
	return n.Content, nil
}

func position(n *yaml.Node) ast.Pos {
	return ast.Pos{Line: n.Line, Col: n.Column}
}

func errorAt(n *yaml.Node, format string, args ...any) error {
	if n == nil {
		return ast.ErrorAt(ast.Pos{}, format, args...)
	}
	return ast.ErrorAt(position(n), format, args...)
}
