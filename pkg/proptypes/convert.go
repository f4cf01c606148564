// Package proptypes converts PropTypes descriptor expressions into
// TypeScript type expressions.
package proptypes

import "github.com/Sumatoshi-tech/propconv/pkg/jsast"

// Tree-sitter node kinds used by the translator.
const (
	kindIdentifier     = "identifier"
	kindMember         = "member_expression"
	kindCall           = "call_expression"
	kindObject         = "object"
	kindArray          = "array"
	kindPair           = "pair"
	kindComment        = "comment"
	kindSpread         = "spread_element"
	kindPropertyIdent  = "property_identifier"
	kindString         = "string"
	kindNumber         = "number"
	propTypesNamespace = "PropTypes"
	requiredMarker     = "isRequired"
	complexShape       = "shape"
	complexOneOfType   = "oneOfType"
)

// Result is a converted prop type and whether the prop may be omitted.
type Result struct {
	Type     Type
	Optional bool
}

// Convert translates the descriptor expression at id. Identifiers are
// resolved through mapping; names missing from it are used unchanged.
func Convert(tree *jsast.Tree, id jsast.NodeID, mapping map[string]string) (Result, error) {
	optional := true

	if inner, ok := stripRequired(tree, id); ok {
		optional = false
		id = inner
	}

	if tree.Is(id, kindIdentifier) {
		name := tree.Text(id)
		if mapped, ok := mapping[name]; ok {
			name = mapped
		}

		return Result{Type: Ref{Name: name}, Optional: optional}, nil
	}

	if tag, ok := primitiveTag(tree, id); ok {
		typ, err := convertPrimitive(tree, id, tag)
		if err != nil {
			return Result{}, err
		}

		return Result{Type: typ, Optional: optional}, nil
	}

	if isComplex(tree, id, complexShape) {
		body, err := complexArg(tree, id)
		if err != nil {
			return Result{}, err
		}

		if !tree.Is(body, kindObject) {
			return Result{}, NewError(ErrInvalidArgumentShape, tree.Pos(body), "invalid shape expression")
		}

		record, err := ConvertShape(tree, body, mapping)
		if err != nil {
			return Result{}, err
		}

		return Result{Type: record, Optional: optional}, nil
	}

	if isComplex(tree, id, complexOneOfType) {
		body, err := complexArg(tree, id)
		if err != nil {
			return Result{}, err
		}

		if !tree.Is(body, kindArray) {
			return Result{}, NewError(ErrInvalidArgumentShape, tree.Pos(body), "invalid array expression")
		}

		union, membersOptional, err := convertUnion(tree, body, mapping)
		if err != nil {
			return Result{}, err
		}

		return Result{Type: union, Optional: optional && membersOptional}, nil
	}

	return Result{}, NewError(ErrUnconvertiblePropertyType, tree.Pos(id), "cannot convert prop type %q", tree.Text(id))
}

// ConvertShape translates an object literal of descriptors into a record.
// Only key: value entries with a plain key become members; spreads,
// shorthands, methods and computed keys are skipped. Comments between two
// entries document the following one; a comment sharing a line with the
// opening brace or the previous entry does not.
func ConvertShape(tree *jsast.Tree, object jsast.NodeID, mapping map[string]string) (*Record, error) {
	record := &Record{}

	var (
		docs    []string
		prevEnd int
	)

	if obj, ok := tree.Node(object); ok {
		prevEnd = obj.StartPos.Line
	}

	for _, child := range tree.Children(object) {
		node, _ := tree.Node(child)

		switch node.Kind {
		case kindComment:
			if node.StartPos.Line == prevEnd {
				// Trailing comment of the previous entry.
				continue
			}

			docs = append(docs, tree.Text(child))
		case kindPair:
			if !plainKey(tree, tree.Field(child, "key")) {
				docs = nil

				break
			}

			field, err := convertField(tree, child, mapping)
			if err != nil {
				return nil, err
			}

			field.Doc = docs
			record.Fields = append(record.Fields, field)
			docs = nil
		default:
			docs = nil
		}

		prevEnd = node.EndPos.Line
	}

	return record, nil
}

func plainKey(tree *jsast.Tree, key jsast.NodeID) bool {
	switch tree.Kind(key) {
	case kindPropertyIdent, kindString, kindNumber:
		return true
	default:
		return false
	}
}

func convertField(tree *jsast.Tree, pair jsast.NodeID, mapping map[string]string) (Field, error) {
	key := tree.Field(pair, "key")
	value := tree.Field(pair, "value")

	if value == jsast.NoNode {
		return Field{}, NewError(ErrUnconvertiblePropertyType, tree.Pos(pair), "unexpected prop type value")
	}

	converted, err := Convert(tree, value, mapping)
	if err != nil {
		return Field{}, err
	}

	return Field{
		Name:     tree.Text(key),
		Type:     converted.Type,
		Optional: converted.Optional,
	}, nil
}

// convertUnion converts every member of a oneOfType array. The returned flag
// is true when there is at least one member and all members are optional; in
// that case an undefined arm is appended.
func convertUnion(tree *jsast.Tree, array jsast.NodeID, mapping map[string]string) (Union, bool, error) {
	var (
		arms     []Type
		optional = true
	)

	for _, element := range tree.Children(array) {
		switch tree.Kind(element) {
		case kindComment, kindSpread:
			continue
		}

		converted, err := Convert(tree, element, mapping)
		if err != nil {
			return Union{}, false, err
		}

		optional = optional && converted.Optional
		arms = append(arms, converted.Type)
	}

	optional = optional && len(arms) > 0
	if optional {
		arms = append(arms, Undefined)
	}

	return Union{Arms: arms}, optional, nil
}

func convertPrimitive(tree *jsast.Tree, id jsast.NodeID, tag string) (Type, error) {
	switch tag {
	case "string":
		return String, nil
	case "number":
		return Number, nil
	case "bool":
		return Boolean, nil
	case "func":
		return Callback(), nil
	case "element":
		return JSX("Element"), nil
	case "elementType":
		return JSX("ElementClass"), nil
	case "node":
		return Node(), nil
	default:
		return nil, NewError(ErrUnsupportedPrimitive, tree.Pos(id), "unable to convert primitive type %q", tag)
	}
}

// stripRequired returns the object of a trailing .isRequired access.
func stripRequired(tree *jsast.Tree, id jsast.NodeID) (jsast.NodeID, bool) {
	if !tree.Is(id, kindMember) {
		return id, false
	}

	property := tree.Field(id, "property")
	if !tree.Is(property, kindPropertyIdent) || tree.Text(property) != requiredMarker {
		return id, false
	}

	return tree.Field(id, "object"), true
}

// primitiveTag matches PropTypes.<tag>.
func primitiveTag(tree *jsast.Tree, id jsast.NodeID) (string, bool) {
	if !tree.Is(id, kindMember) {
		return "", false
	}

	object := tree.Field(id, "object")
	if !tree.Is(object, kindIdentifier) || tree.Text(object) != propTypesNamespace {
		return "", false
	}

	property := tree.Field(id, "property")
	if !tree.Is(property, kindPropertyIdent) {
		return "", false
	}

	return tree.Text(property), true
}

// isComplex matches PropTypes.<name>(...).
func isComplex(tree *jsast.Tree, id jsast.NodeID, name string) bool {
	if !tree.Is(id, kindCall) {
		return false
	}

	tag, ok := primitiveTag(tree, tree.Field(id, "function"))

	return ok && tag == name
}

// complexArg returns the first argument of a complex prop type call.
func complexArg(tree *jsast.Tree, call jsast.NodeID) (jsast.NodeID, error) {
	args := tree.Field(call, "arguments")

	for _, arg := range tree.Children(args) {
		if tree.Is(arg, kindComment) {
			continue
		}

		if tree.Is(arg, kindSpread) {
			return jsast.NoNode, NewError(ErrInvalidArgumentShape, tree.Pos(arg), "unexpected prop type complex type argument")
		}

		return arg, nil
	}

	pos := tree.Pos(args)
	if pos == nil {
		pos = tree.Pos(call)
	}

	return jsast.NoNode, NewError(ErrInvalidArgumentShape, pos, "unexpected prop type complex type argument")
}
