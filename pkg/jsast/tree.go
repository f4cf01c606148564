// Package jsast provides a mutable syntax tree for JavaScript/TypeScript/JSX
// sources. Parsing is delegated to tree-sitter's TSX grammar; the resulting
// concrete tree is copied into an arena owned by [Tree] and addressed through
// [NodeID] handles. Edits are recorded against nodes and applied by [Tree.Print],
// so every untouched region of the source is reproduced byte for byte.
package jsast

import (
	"errors"
	"fmt"
	"strings"
)

// NodeID is a handle to a node owned by a [Tree]. It stays valid until an
// ancestor of the node is replaced or removed.
type NodeID int

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

// Sentinel errors for tree edits.
var (
	ErrStaleHandle = errors.New("jsast: stale node handle")
	ErrInvalidNode = errors.New("jsast: invalid node handle")
)

// Position is a 1-based line/column location in the source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one named node of the tree. Anonymous tokens (keywords,
// punctuation) are not materialised; they live in the source gaps between
// named children.
type Node struct {
	Kind     string
	Start    int
	End      int
	StartPos Position
	EndPos   Position
	Parent   NodeID
	Children []NodeID
	fields   map[string]NodeID
}

type editKind int

const (
	editNone editKind = iota
	editReplace
	editRemove
)

type edit struct {
	kind editKind
	text string
}

// Tree is a parsed source file plus the edits applied to it.
type Tree struct {
	src      []byte
	nodes    []Node
	edits    map[NodeID]edit
	inserts  map[NodeID][]string
	detached []bool
	count    int
}

// Source returns the original source text.
func (t *Tree) Source() []byte {
	return t.src
}

// Root returns the program node.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a copy of the node behind id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}

	return t.nodes[id], true
}

// Kind returns the grammar node type, or "" for an invalid handle.
func (t *Tree) Kind(id NodeID) string {
	if !t.valid(id) {
		return ""
	}

	return t.nodes[id].Kind
}

// Is reports whether id is a node of the given kind.
func (t *Tree) Is(id NodeID, kind string) bool {
	return t.Kind(id) == kind
}

// Text returns the original source text of the node.
func (t *Tree) Text(id NodeID) string {
	if !t.valid(id) {
		return ""
	}

	n := t.nodes[id]

	return string(t.src[n.Start:n.End])
}

// Children returns the named children of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}

	return t.nodes[id].Children
}

// Parent returns the parent of id, or [NoNode] for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}

	return t.nodes[id].Parent
}

// Field returns the child stored under a grammar field name, or [NoNode].
func (t *Tree) Field(id NodeID, name string) NodeID {
	if !t.valid(id) {
		return NoNode
	}

	child, ok := t.nodes[id].fields[name]
	if !ok {
		return NoNode
	}

	return child
}

// Pos returns the start position of id.
func (t *Tree) Pos(id NodeID) *Position {
	if !t.valid(id) {
		return nil
	}

	pos := t.nodes[id].StartPos

	return &pos
}

// FirstChild returns the first named child of the given kind, or [NoNode].
func (t *Tree) FirstChild(id NodeID, kind string) NodeID {
	for _, child := range t.Children(id) {
		if t.nodes[child].Kind == kind {
			return child
		}
	}

	return NoNode
}

// Find returns all nodes of the given kind in document order.
func (t *Tree) Find(kind string) []NodeID {
	var found []NodeID

	for i := range t.nodes {
		if t.nodes[i].Kind == kind {
			found = append(found, NodeID(i))
		}
	}

	return found
}

// Stale reports whether id sits below a replaced or removed node.
func (t *Tree) Stale(id NodeID) bool {
	return t.valid(id) && t.detached[id]
}

// Edits returns the number of edits applied so far.
func (t *Tree) Edits() int {
	return t.count
}

// Replace substitutes the node's text. Descendants become stale. Replacing
// an already replaced node overwrites the previous replacement.
func (t *Tree) Replace(id NodeID, text string) error {
	err := t.checkEditable(id)
	if err != nil {
		return err
	}

	t.edits[id] = edit{kind: editReplace, text: text}
	t.detachChildren(id)
	t.count++

	return nil
}

// Remove deletes the node. When the node is followed by nothing but
// whitespace up to the end of its line, that line break is removed too.
func (t *Tree) Remove(id NodeID) error {
	err := t.checkEditable(id)
	if err != nil {
		return err
	}

	if id == t.Root() {
		return fmt.Errorf("%w: cannot remove the root", ErrInvalidNode)
	}

	t.edits[id] = edit{kind: editRemove}
	t.detachChildren(id)
	t.count++

	return nil
}

// InsertAfter appends text right after the node's end.
func (t *Tree) InsertAfter(id NodeID, text string) error {
	err := t.checkEditable(id)
	if err != nil {
		return err
	}

	t.inserts[id] = append(t.inserts[id], text)
	t.count++

	return nil
}

// Print renders the tree with all edits applied.
func (t *Tree) Print() string {
	var sb strings.Builder

	sb.Grow(len(t.src))

	root := t.nodes[t.Root()]
	sb.Write(t.src[:root.Start])
	t.emit(&sb, t.Root())
	sb.Write(t.src[root.End:])

	return sb.String()
}

func (t *Tree) emit(sb *strings.Builder, id NodeID) {
	n := t.nodes[id]

	switch e := t.edits[id]; e.kind {
	case editRemove:
		return
	case editReplace:
		sb.WriteString(e.text)
	case editNone:
		pos := n.Start

		for _, child := range n.Children {
			c := t.nodes[child]
			if c.Start < pos {
				continue
			}

			sb.Write(t.src[pos:c.Start])
			t.emit(sb, child)
			pos = c.End

			if t.edits[child].kind == editRemove {
				pos = t.skipLineRest(pos, n.End)
			}
		}

		sb.Write(t.src[pos:n.End])
	}

	for _, text := range t.inserts[id] {
		sb.WriteString(text)
	}
}

// skipLineRest returns the offset after the line break following pos when
// only blanks separate them; otherwise pos itself.
func (t *Tree) skipLineRest(pos, limit int) int {
	for i := pos; i < limit; i++ {
		switch t.src[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return i + 1
		default:
			return pos
		}
	}

	return pos
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

func (t *Tree) checkEditable(id NodeID) error {
	if !t.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}

	if t.detached[id] || t.edits[id].kind == editRemove {
		return fmt.Errorf("%w: %s at %s", ErrStaleHandle, t.nodes[id].Kind, t.nodes[id].StartPos)
	}

	return nil
}

func (t *Tree) detachChildren(id NodeID) {
	for _, child := range t.nodes[id].Children {
		t.detached[child] = true
		t.detachChildren(child)
	}
}
