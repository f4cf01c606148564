package transform

import (
	"strings"

	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
	"github.com/Sumatoshi-tech/propconv/pkg/proptypes"
)

// ElementType is the return type given to component functions.
const ElementType = "JSX.Element"

// FunctionName returns the declared name of fn.
func FunctionName(tree *jsast.Tree, fn jsast.NodeID) (string, error) {
	name := tree.Field(fn, "name")
	if name == jsast.NoNode {
		return "", proptypes.NewError(proptypes.ErrMissingFunctionIdentity, tree.Pos(fn), "cannot get function name")
	}

	return tree.Text(name), nil
}

// AugmentSignature sets the return type of fn to JSX.Element and, when fn
// takes exactly one parameter, annotates that parameter with propsType.
// Annotations that already read the same are left alone.
func AugmentSignature(tree *jsast.Tree, fn jsast.NodeID, propsType string) error {
	params := tree.Field(fn, "parameters")

	err := annotate(tree, tree.Field(fn, "return_type"), params, ElementType)
	if err != nil {
		return err
	}

	list := parameters(tree, params)
	if len(list) != 1 {
		return nil
	}

	param := list[0]

	if tree.Is(param, kindOptionalParameter) && tree.Field(param, "type") == jsast.NoNode {
		return annotateOptional(tree, param, propsType)
	}

	target := tree.Field(param, "pattern")
	if target == jsast.NoNode {
		target = param
	}

	return annotate(tree, tree.Field(param, "type"), target, propsType)
}

// annotate replaces the annotation node with ": typ", or inserts one after
// anchor when there is none.
func annotate(tree *jsast.Tree, annotation, anchor jsast.NodeID, typ string) error {
	text := ": " + typ

	if annotation == jsast.NoNode {
		return tree.InsertAfter(anchor, text)
	}

	if sameAnnotation(tree.Text(annotation), typ) {
		return nil
	}

	return tree.Replace(annotation, text)
}

// annotateOptional rewrites `name?` and `name? = value` with a type.
func annotateOptional(tree *jsast.Tree, param jsast.NodeID, typ string) error {
	text := tree.Text(tree.Field(param, "pattern")) + "?: " + typ

	if value := tree.Field(param, "value"); value != jsast.NoNode {
		text += " = " + tree.Text(value)
	}

	return tree.Replace(param, text)
}

func sameAnnotation(annotation, typ string) bool {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(annotation), ":")) == typ
}

func parameters(tree *jsast.Tree, params jsast.NodeID) []jsast.NodeID {
	var list []jsast.NodeID

	for _, child := range tree.Children(params) {
		if tree.Is(child, kindComment) {
			continue
		}

		list = append(list, child)
	}

	return list
}
