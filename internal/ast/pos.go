// Package ast defines the node model of the typed first-order modeling
// language: expressions, declarations and the blocks that own them.
package ast

import "fmt"

// Pos is a 1-based source location. The zero value means "unknown".
type Pos struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col" yaml:"col"`
}

// IsValid reports whether the position points into a source file.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Position lets a bare Pos stand in for a Node.
func (p Pos) Position() Pos { return p }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is anything that carries a source location.
type Node interface {
	Position() Pos
}

// Error is a structural failure raised while building or annotating the
// tree. It aborts processing of the enclosing block.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("Error on line %d, col %d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
	}
	return e.Msg
}

// Errorf builds an Error located at n.
func Errorf(n Node, format string, args ...any) *Error {
	var pos Pos
	if n != nil {
		pos = n.Position()
	}
	return ErrorAt(pos, format, args...)
}

// ErrorAt builds an Error at an explicit position.
func ErrorAt(pos Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
