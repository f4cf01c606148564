// Package transform rewrites a PropTypes component file into its
// TypeScript form.
package transform

import (
	"fmt"

	"github.com/Sumatoshi-tech/propconv/pkg/importrules"
	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
	"github.com/Sumatoshi-tech/propconv/pkg/proptypes"
)

const (
	kindExpressionStatement = "expression_statement"
	kindAssignment          = "assignment_expression"
	kindMember              = "member_expression"
	kindIdentifier          = "identifier"
	kindPropertyIdent       = "property_identifier"
	kindObject              = "object"
	kindFunction            = "function_declaration"
	kindExport              = "export_statement"
	kindImport              = "import_statement"
	kindComment             = "comment"
	kindOptionalParameter   = "optional_parameter"

	propTypesProperty = "propTypes"
)

// PropsTypeName is the name of the type alias generated for a component.
func PropsTypeName(component string) string {
	return component + "Props"
}

// FindPropTypesDecl returns the top-level `<component>.propTypes = {...}`
// statement, or [jsast.NoNode].
func FindPropTypesDecl(tree *jsast.Tree, component string) jsast.NodeID {
	for _, stmt := range tree.Children(tree.Root()) {
		if propTypesObject(tree, stmt, component) != jsast.NoNode {
			return stmt
		}
	}

	return jsast.NoNode
}

// IsComponent reports whether the tree declares prop types for component.
func IsComponent(tree *jsast.Tree, component string) bool {
	return FindPropTypesDecl(tree, component) != jsast.NoNode
}

// Component rewrites the tree in one pass over its top-level statements:
// the prop types declaration of component becomes an exported type alias,
// the component function gets a typed signature and every import goes
// through rules. A nil mapping is derived from rules.
func Component(tree *jsast.Tree, component string, rules []importrules.Rule, mapping importrules.TypeMapping) error {
	if mapping == nil {
		mapping = importrules.DeriveTypeMapping(rules)
	}

	for _, stmt := range tree.Children(tree.Root()) {
		var err error

		switch tree.Kind(stmt) {
		case kindExpressionStatement:
			if object := propTypesObject(tree, stmt, component); object != jsast.NoNode {
				err = declareProps(tree, stmt, object, component, mapping)
			}
		case kindFunction:
			err = augmentComponent(tree, stmt, component)
		case kindExport:
			err = augmentComponent(tree, exportedFunction(tree, stmt), component)
		case kindImport:
			err = rewriteImport(tree, stmt, rules)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// propTypesObject matches `<component>.propTypes = <object>` and returns the
// object literal.
func propTypesObject(tree *jsast.Tree, stmt jsast.NodeID, component string) jsast.NodeID {
	if !tree.Is(stmt, kindExpressionStatement) || tree.Parent(stmt) != tree.Root() {
		return jsast.NoNode
	}

	assign := tree.FirstChild(stmt, kindAssignment)

	left := tree.Field(assign, "left")
	if !tree.Is(left, kindMember) {
		return jsast.NoNode
	}

	object := tree.Field(left, "object")
	if !tree.Is(object, kindIdentifier) || tree.Text(object) != component {
		return jsast.NoNode
	}

	property := tree.Field(left, "property")
	if !tree.Is(property, kindPropertyIdent) || tree.Text(property) != propTypesProperty {
		return jsast.NoNode
	}

	right := tree.Field(assign, "right")
	if !tree.Is(right, kindObject) {
		return jsast.NoNode
	}

	return right
}

func declareProps(
	tree *jsast.Tree, stmt, object jsast.NodeID, component string, mapping importrules.TypeMapping,
) error {
	if tree.Stale(object) || !tree.Is(object, kindObject) {
		return proptypes.NewError(proptypes.ErrStructuralMismatch, tree.Pos(stmt), "prop types declaration is not an object literal")
	}

	record, err := proptypes.ConvertShape(tree, object, mapping)
	if err != nil {
		return err
	}

	alias := fmt.Sprintf("export type %s = %s;", PropsTypeName(component), proptypes.Render(record, 0))

	err = tree.Replace(stmt, alias)
	if err != nil {
		return fmt.Errorf("replace prop types of %s: %w", component, err)
	}

	return nil
}

// exportedFunction returns the function declared by `export function` or
// `export default function`, or [jsast.NoNode].
func exportedFunction(tree *jsast.Tree, stmt jsast.NodeID) jsast.NodeID {
	for _, field := range []string{"declaration", "value"} {
		if child := tree.Field(stmt, field); tree.Is(child, kindFunction) {
			return child
		}
	}

	return jsast.NoNode
}

func augmentComponent(tree *jsast.Tree, fn jsast.NodeID, component string) error {
	if fn == jsast.NoNode {
		return nil
	}

	name, err := FunctionName(tree, fn)
	if err != nil {
		return err
	}

	if name != component {
		return nil
	}

	err = AugmentSignature(tree, fn, PropsTypeName(component))
	if err != nil {
		return fmt.Errorf("augment %s: %w", component, err)
	}

	return nil
}

func rewriteImport(tree *jsast.Tree, stmt jsast.NodeID, rules []importrules.Rule) error {
	imp, err := importrules.OpenImport(tree, stmt)
	if err != nil {
		return err
	}

	_, err = importrules.ApplyRules(imp, rules)

	return err
}
