package proptypes

import "strings"

// Type is a TypeScript type expression produced from a prop type.
type Type interface {
	isType()
}

// Ref is a reference to a named type, possibly qualified (JSX.Element).
type Ref struct {
	Name string
}

// Keyword is a predefined type such as string or undefined.
type Keyword struct {
	Name string
}

// Array is T[].
type Array struct {
	Elem Type
}

// Union is A | B | C.
type Union struct {
	Arms []Type
}

// Param is one parameter of a [Func] type.
type Param struct {
	Name string
	Rest bool
	Type Type
}

// Func is a function type (params) => Result.
type Func struct {
	Params []Param
	Result Type
}

// Field is one member of a [Record].
type Field struct {
	Name     string
	Type     Type
	Optional bool
	Doc      []string
}

// Record is an object type literal with ordered members.
type Record struct {
	Fields []Field
}

func (Ref) isType() {}
func (Keyword) isType() {}
func (Array) isType() {}
func (Union) isType() {}
func (Func) isType() {}
func (*Record) isType() {}

// Keywords used by the translator.
var (
	String    = Keyword{Name: "string"}
	Number    = Keyword{Name: "number"}
	Boolean   = Keyword{Name: "boolean"}
	Any       = Keyword{Name: "any"}
	Void      = Keyword{Name: "void"}
	Undefined = Keyword{Name: "undefined"}
)

// JSX returns the JSX.<name> type reference.
func JSX(name string) Ref {
	return Ref{Name: "JSX." + name}
}

// Callback is (...args: any[]) => void.
func Callback() Func {
	return Func{
		Params: []Param{{Name: "args", Rest: true, Type: Array{Elem: Any}}},
		Result: Void,
	}
}

// Renderable is string | number | boolean | JSX.Element.
func Renderable() Union {
	return Union{Arms: []Type{String, Number, Boolean, JSX("Element")}}
}

// Node is a renderable value or an array of them.
func Node() Union {
	return Union{Arms: []Type{Renderable(), Array{Elem: Renderable()}}}
}

const indentUnit = "  "

type precedence int

const (
	precTop precedence = iota
	precUnionArm
	precArrayElem
)

// Render prints t as TypeScript source. Records are laid out one member per
// line, indented relative to depth.
func Render(t Type, depth int) string {
	var sb strings.Builder

	render(&sb, t, depth, precTop)

	return sb.String()
}

func render(sb *strings.Builder, t Type, depth int, prec precedence) {
	switch typ := t.(type) {
	case Ref:
		sb.WriteString(typ.Name)
	case Keyword:
		sb.WriteString(typ.Name)
	case Array:
		render(sb, typ.Elem, depth, precArrayElem)
		sb.WriteString("[]")
	case Union:
		renderUnion(sb, typ, depth, prec)
	case Func:
		renderFunc(sb, typ, depth, prec)
	case *Record:
		renderRecord(sb, typ, depth)
	}
}

func renderUnion(sb *strings.Builder, u Union, depth int, prec precedence) {
	if len(u.Arms) == 1 {
		render(sb, u.Arms[0], depth, prec)

		return
	}

	if len(u.Arms) == 0 {
		sb.WriteString("never")

		return
	}

	wrap := prec == precArrayElem
	if wrap {
		sb.WriteByte('(')
	}

	for i, arm := range u.Arms {
		if i > 0 {
			sb.WriteString(" | ")
		}

		if nested, ok := arm.(Union); ok && len(nested.Arms) > 1 {
			// Flatten: A | (B | C) prints as A | B | C.
			renderUnion(sb, nested, depth, precTop)

			continue
		}

		render(sb, arm, depth, precUnionArm)
	}

	if wrap {
		sb.WriteByte(')')
	}
}

func renderFunc(sb *strings.Builder, f Func, depth int, prec precedence) {
	wrap := prec != precTop
	if wrap {
		sb.WriteByte('(')
	}

	sb.WriteByte('(')

	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		if p.Rest {
			sb.WriteString("...")
		}

		sb.WriteString(p.Name)
		sb.WriteString(": ")
		render(sb, p.Type, depth, precTop)
	}

	sb.WriteString(") => ")
	render(sb, f.Result, depth, precTop)

	if wrap {
		sb.WriteByte(')')
	}
}

func renderRecord(sb *strings.Builder, r *Record, depth int) {
	if len(r.Fields) == 0 {
		sb.WriteString("{}")

		return
	}

	inner := strings.Repeat(indentUnit, depth+1)

	sb.WriteString("{\n")

	for _, field := range r.Fields {
		for _, doc := range field.Doc {
			sb.WriteString(inner)
			sb.WriteString(doc)
			sb.WriteByte('\n')
		}

		sb.WriteString(inner)
		sb.WriteString(field.Name)

		if field.Optional {
			sb.WriteByte('?')
		}

		sb.WriteString(": ")
		render(sb, field.Type, depth+1, precTop)
		sb.WriteString(";\n")
	}

	sb.WriteString(strings.Repeat(indentUnit, depth))
	sb.WriteByte('}')
}
