package jsast

import "errors"

// Positioned is implemented by errors that know where in the source they
// happened.
type Positioned interface {
	SourcePosition() (Position, bool)
}

// PositionOf returns the source position carried by err or anything it wraps.
func PositionOf(err error) (Position, bool) {
	var positioned Positioned
	if errors.As(err, &positioned) {
		return positioned.SourcePosition()
	}

	return Position{}, false
}

// Dump converts the subtree at id into a JSON-friendly map with the node
// type, positions, byte offsets, leaf text and named children.
func (t *Tree) Dump(id NodeID) map[string]any {
	if !t.valid(id) {
		return nil
	}

	n := t.nodes[id]

	result := map[string]any{
		"type":       n.Kind,
		"start_pos":  n.StartPos,
		"end_pos":    n.EndPos,
		"start_byte": n.Start,
		"end_byte":   n.End,
	}

	if len(n.fields) > 0 {
		fields := make(map[string]string, len(n.fields))
		for name, child := range n.fields {
			fields[name] = t.nodes[child].Kind
		}

		result["fields"] = fields
	}

	if len(n.Children) == 0 {
		result["text"] = t.Text(id)

		return result
	}

	children := make([]map[string]any, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, t.Dump(child))
	}

	result["children"] = children

	return result
}
