package jsast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/tsx"
)

// Sentinel errors for parsing.
var (
	ErrNoRootNode = errors.New("jsast: no root node")
	ErrPoolType   = errors.New("jsast: pool returned unexpected type")
)

// fieldNames lists the grammar fields the transformer addresses. Only these
// are resolved when the arena is built.
var fieldNames = []string{
	"alias",
	"arguments",
	"body",
	"declaration",
	"function",
	"key",
	"left",
	"name",
	"object",
	"parameters",
	"pattern",
	"property",
	"return_type",
	"right",
	"source",
	"type",
	"value",
}

// SyntaxError reports source that tree-sitter could not parse. Missing is
// set when the parser recovered by inventing a token; Text is then that token.
type SyntaxError struct {
	Pos     Position
	Text    string
	Missing bool
}

func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("syntax error: missing %q", e.Text)
	}

	return fmt.Sprintf("syntax error near %q", e.Text)
}

// SourcePosition implements [Positioned].
func (e *SyntaxError) SourcePosition() (Position, bool) {
	return e.Pos, true
}

var tsxLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(tsx.GetLanguage())
})

var parserPool = sync.Pool{
	New: func() any {
		tsParser := sitter.NewParser()
		tsParser.SetLanguage(tsxLanguage())

		return tsParser
	},
}

// Parse parses JavaScript, JSX or TypeScript source into a [Tree]. Any
// ERROR or MISSING node in the result fails the parse with a [*SyntaxError].
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	tsParser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, ErrPoolType
	}

	defer parserPool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsast: failed to parse: %w", err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	if root.HasError() {
		return nil, syntaxError(root, src)
	}

	builder := &treeBuilder{
		tree: &Tree{
			src:     src,
			edits:   make(map[NodeID]edit),
			inserts: make(map[NodeID][]string),
		},
	}

	builder.add(root, NoNode)

	builder.tree.detached = make([]bool, len(builder.tree.nodes))

	return builder.tree, nil
}

// syntaxError locates the first ERROR or MISSING node below root, anonymous
// tokens included.
func syntaxError(root sitter.Node, src []byte) *SyntaxError {
	bad, ok := firstError(root)
	if !ok {
		return &SyntaxError{Pos: Position{Line: 1, Column: 1}, Text: truncate(string(src), maxSnippet)}
	}

	start := bad.StartPoint()
	pos := Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1}

	if bad.IsMissing() {
		return &SyntaxError{Pos: pos, Text: bad.Type(), Missing: true}
	}

	return &SyntaxError{Pos: pos, Text: truncate(bad.Content(src), maxSnippet)}
}

func firstError(tsNode sitter.Node) (sitter.Node, bool) {
	if tsNode.IsError() || tsNode.IsMissing() {
		return tsNode, true
	}

	for idx := range tsNode.ChildCount() {
		child := tsNode.Child(idx)
		if child.IsNull() || (!child.HasError() && !child.IsMissing()) {
			continue
		}

		if bad, ok := firstError(child); ok {
			return bad, true
		}
	}

	return sitter.Node{}, false
}

type treeBuilder struct {
	tree *Tree
}

func (b *treeBuilder) add(tsNode sitter.Node, parent NodeID) NodeID {
	id := NodeID(len(b.tree.nodes))

	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	b.tree.nodes = append(b.tree.nodes, Node{
		Kind:     tsNode.Type(),
		Start:    int(tsNode.StartByte()), //nolint:gosec // tree-sitter byte offsets fit in int
		End:      int(tsNode.EndByte()),   //nolint:gosec // tree-sitter byte offsets fit in int
		StartPos: Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		EndPos:   Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
		Parent:   parent,
	})

	children := make([]NodeID, 0, tsNode.NamedChildCount())

	for idx := range tsNode.NamedChildCount() {
		child := tsNode.NamedChild(idx)
		if child.IsNull() {
			continue
		}

		children = append(children, b.add(child, id))
	}

	b.tree.nodes[id].Children = children
	b.tree.nodes[id].fields = b.resolveFields(tsNode, children)

	return id
}

// resolveFields maps grammar field names to the arena IDs of named children.
// Fields that point at anonymous tokens are not recorded.
func (b *treeBuilder) resolveFields(tsNode sitter.Node, children []NodeID) map[string]NodeID {
	if len(children) == 0 {
		return nil
	}

	var fields map[string]NodeID

	for _, name := range fieldNames {
		fieldNode := tsNode.ChildByFieldName(name)
		if fieldNode.IsNull() {
			continue
		}

		start := int(fieldNode.StartByte()) //nolint:gosec // tree-sitter byte offsets fit in int
		end := int(fieldNode.EndByte())     //nolint:gosec // tree-sitter byte offsets fit in int
		kind := fieldNode.Type()

		for _, child := range children {
			n := b.tree.nodes[child]
			if n.Start == start && n.End == end && n.Kind == kind {
				if fields == nil {
					fields = make(map[string]NodeID, len(fieldNames))
				}

				fields[name] = child

				break
			}
		}
	}

	return fields
}

const maxSnippet = 40

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
