// Package parsetree decodes the YAML rendering of a parsed program into
// the ast node model.
//
// A document has up to four top-level sequences: vocabularies,
// structures, theories and procedures. Expressions are scalars (names,
// numbers, booleans, quoted "#YYYY-MM-DD" dates) or single-purpose
// mappings such as {apply: p, args: [x]}, {op: "∧", operands: [...]},
// {forall: [{vars: [x], in: T}], body: ...} or {count: [...], body: ...}.
// Every mapping may carry pos: [line, col] and annotations: [...].
package parsetree

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"folint/internal/ast"
)

// Decode reads one YAML document from r.
func Decode(r io.Reader) (*ast.Program, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return &ast.Program{}, nil
		}
		return nil, syntaxError(err)
	}
	return decodeRoot(&root)
}

var yamlLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// syntaxError locates a YAML syntax error on its line when the message
// names one.
func syntaxError(err error) error {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("parse tree: %w", err)
	}
	line, _ := strconv.Atoi(m[1])
	return ast.ErrorAt(ast.Pos{Line: line, Col: 1}, "%s", m[2])
}

// DecodeBytes decodes data.
func DecodeBytes(data []byte) (*ast.Program, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile decodes the file at path.
func DecodeFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func decodeRoot(root *yaml.Node) (*ast.Program, error) {
	doc := root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return &ast.Program{}, nil
		}
		doc = doc.Content[0]
	}
	m, err := mapping(doc)
	if err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for _, key := range m.keys {
		switch key {
		case "vocabularies", "structures", "theories", "procedures":
		default:
			return nil, errorAt(m.get(key), "unknown block list %q", key)
		}
		items, err := sequence(m.get(key))
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			switch key {
			case "vocabularies":
				v, err := vocabulary(item)
				if err != nil {
					return nil, err
				}
				prog.Vocabularies = append(prog.Vocabularies, v)
			case "structures":
				s, err := structure(item)
				if err != nil {
					return nil, err
				}
				prog.Structures = append(prog.Structures, s)
			case "theories":
				t, err := theory(item)
				if err != nil {
					return nil, err
				}
				prog.Theories = append(prog.Theories, t)
			case "procedures":
				p, err := procedure(item)
				if err != nil {
					return nil, err
				}
				prog.Procedures = append(prog.Procedures, p)
			}
		}
	}
	return prog, nil
}
