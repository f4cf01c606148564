// Package importrules rewrites import declarations with an ordered table of
// declarative rules and derives the custom type name mapping from it.
package importrules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
)

// ErrNotImport is returned when a node is not an import declaration.
var ErrNotImport = errors.New("importrules: not an import declaration")

// Tree-sitter node kinds of import declarations.
const (
	kindImport       = "import_statement"
	kindImportClause = "import_clause"
	kindNamedImports = "named_imports"
	kindNamespace    = "namespace_import"
	kindImportSpec   = "import_specifier"
	kindIdentifier   = "identifier"
)

// SpecifierForm is the syntactic form of an import specifier.
type SpecifierForm int

// Specifier forms.
const (
	FormDefault SpecifierForm = iota
	FormNamed
	FormNamespace
)

// Specifier is one binding introduced by an import declaration.
type Specifier struct {
	Form     SpecifierForm
	Imported string
	Local    string
}

// Symbol returns the specifier as rules see it: namespace and named
// bindings count as value imports, identified by their local name.
func (s Specifier) Symbol() SymbolImport {
	if s.Form == FormDefault {
		return Default(s.Local)
	}

	return Value(s.Local)
}

// Import is a write-through view of one import declaration. Every change is
// recorded in the tree immediately.
type Import struct {
	tree       *jsast.Tree
	node       jsast.NodeID
	sourceNode jsast.NodeID
	clause     jsast.NodeID
	source     string
	quote      string
	specifiers []Specifier
	removed    bool
}

// OpenImport reads the import declaration at id.
func OpenImport(tree *jsast.Tree, id jsast.NodeID) (*Import, error) {
	if !tree.Is(id, kindImport) {
		return nil, fmt.Errorf("%w: %s", ErrNotImport, tree.Kind(id))
	}

	imp := &Import{
		tree:       tree,
		node:       id,
		sourceNode: tree.Field(id, "source"),
		clause:     tree.FirstChild(id, kindImportClause),
	}

	if imp.sourceNode == jsast.NoNode {
		return nil, fmt.Errorf("%w: missing source at %s", ErrNotImport, tree.Pos(id))
	}

	raw := tree.Text(imp.sourceNode)
	if len(raw) >= 2 {
		imp.quote = raw[:1]
		imp.source = raw[1 : len(raw)-1]
	}

	imp.specifiers = readSpecifiers(tree, imp.clause)

	return imp, nil
}

func readSpecifiers(tree *jsast.Tree, clause jsast.NodeID) []Specifier {
	var specs []Specifier

	for _, child := range tree.Children(clause) {
		switch tree.Kind(child) {
		case kindIdentifier:
			name := tree.Text(child)
			specs = append(specs, Specifier{Form: FormDefault, Imported: name, Local: name})
		case kindNamespace:
			name := tree.Text(tree.FirstChild(child, kindIdentifier))
			specs = append(specs, Specifier{Form: FormNamespace, Imported: name, Local: name})
		case kindNamedImports:
			for _, spec := range tree.Children(child) {
				if !tree.Is(spec, kindImportSpec) {
					continue
				}

				imported := tree.Text(tree.Field(spec, "name"))
				local := imported

				if alias := tree.Field(spec, "alias"); alias != jsast.NoNode {
					local = tree.Text(alias)
				}

				specs = append(specs, Specifier{Form: FormNamed, Imported: imported, Local: local})
			}
		}
	}

	return specs
}

// Node returns the declaration node.
func (imp *Import) Node() jsast.NodeID {
	return imp.node
}

// Source returns the module path without quotes.
func (imp *Import) Source() string {
	return imp.source
}

// Specifiers returns the bindings in declaration order.
func (imp *Import) Specifiers() []Specifier {
	return imp.specifiers
}

// Removed reports whether the declaration was deleted.
func (imp *Import) Removed() bool {
	return imp.removed
}

// SetSource rewrites the module path, keeping the original quote style.
func (imp *Import) SetSource(source string) error {
	quote := imp.quote
	if quote == "" {
		quote = `"`
	}

	err := imp.tree.Replace(imp.sourceNode, quote+source+quote)
	if err != nil {
		return fmt.Errorf("set import source: %w", err)
	}

	imp.source = source

	return nil
}

// ReplaceSpecifier swaps the binding at index for sym and re-renders the
// import clause.
func (imp *Import) ReplaceSpecifier(index int, sym SymbolImport) error {
	if index < 0 || index >= len(imp.specifiers) {
		return fmt.Errorf("replace specifier: index %d out of range", index)
	}

	imp.specifiers[index] = sym.specifier()

	err := imp.tree.Replace(imp.clause, renderClause(imp.specifiers))
	if err != nil {
		return fmt.Errorf("replace specifier: %w", err)
	}

	return nil
}

// Remove deletes the whole declaration.
func (imp *Import) Remove() error {
	err := imp.tree.Remove(imp.node)
	if err != nil {
		return fmt.Errorf("remove import: %w", err)
	}

	imp.removed = true

	return nil
}

// renderClause prints the default binding first, then the namespace
// binding, then the braced named bindings.
func renderClause(specs []Specifier) string {
	var (
		parts []string
		named []string
	)

	for _, spec := range specs {
		if spec.Form == FormDefault {
			parts = append(parts, spec.Local)
		}
	}

	for _, spec := range specs {
		if spec.Form == FormNamespace {
			parts = append(parts, "* as "+spec.Local)
		}
	}

	for _, spec := range specs {
		if spec.Form != FormNamed {
			continue
		}

		if spec.Imported == spec.Local {
			named = append(named, spec.Local)
		} else {
			named = append(named, spec.Imported+" as "+spec.Local)
		}
	}

	if len(named) > 0 {
		parts = append(parts, "{ "+strings.Join(named, ", ")+" }")
	}

	return strings.Join(parts, ", ")
}
