package proptypes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
	"github.com/Sumatoshi-tech/propconv/pkg/proptypes"
)

// parseValue parses "x = <expr>;" and returns the tree and the expression.
func parseValue(t *testing.T, expr string) (*jsast.Tree, jsast.NodeID) {
	t.Helper()

	tree, err := jsast.Parse(context.Background(), []byte("x = "+expr+";\n"))
	require.NoError(t, err)

	stmt := tree.Children(tree.Root())[0]
	assign := tree.Children(stmt)[0]
	require.Equal(t, "assignment_expression", tree.Kind(assign))

	return tree, tree.Field(assign, "right")
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     string
		mapping  map[string]string
		want     string
		optional bool
	}{
		{name: "string", expr: "PropTypes.string", want: "string", optional: true},
		{name: "required", expr: "PropTypes.string.isRequired", want: "string"},
		{name: "number", expr: "PropTypes.number", want: "number", optional: true},
		{name: "bool", expr: "PropTypes.bool.isRequired", want: "boolean"},
		{name: "func", expr: "PropTypes.func", want: "(...args: any[]) => void", optional: true},
		{name: "element", expr: "PropTypes.element", want: "JSX.Element", optional: true},
		{name: "element type", expr: "PropTypes.elementType", want: "JSX.ElementClass", optional: true},
		{
			name:     "node",
			expr:     "PropTypes.node",
			want:     "string | number | boolean | JSX.Element | (string | number | boolean | JSX.Element)[]",
			optional: true,
		},
		{name: "custom ref", expr: "FileType", want: "FileType", optional: true},
		{
			name:    "mapped ref",
			expr:    "FileType.isRequired",
			mapping: map[string]string{"FileType": "File"},
			want:    "File",
		},
		{
			name:     "union of optional members",
			expr:     "PropTypes.oneOfType([PropTypes.string, PropTypes.number])",
			want:     "string | number | undefined",
			optional: true,
		},
		{
			name: "union of required members",
			expr: "PropTypes.oneOfType([PropTypes.string.isRequired, PropTypes.number.isRequired])",
			want: "string | number",
		},
		{
			name: "union of mixed members",
			expr: "PropTypes.oneOfType([PropTypes.string.isRequired, PropTypes.number])",
			want: "string | number",
		},
		{
			name: "required union of optional members",
			expr: "PropTypes.oneOfType([PropTypes.string]).isRequired",
			want: "string | undefined",
		},
		{
			name: "empty union",
			expr: "PropTypes.oneOfType([])",
			want: "never",
		},
		{
			name:     "union skips spreads",
			expr:     "PropTypes.oneOfType([PropTypes.func, ...others])",
			want:     "((...args: any[]) => void) | undefined",
			optional: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, id := parseValue(t, tt.expr)

			got, err := proptypes.Convert(tree, id, tt.mapping)
			require.NoError(t, err)

			assert.Equal(t, tt.want, proptypes.Render(got.Type, 0))
			assert.Equal(t, tt.optional, got.Optional)
		})
	}
}

func TestConvert_UnionArmCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     string
		arms     int
		optional bool
	}{
		{name: "none optional", expr: "PropTypes.oneOfType([A.isRequired, B.isRequired, C.isRequired])", arms: 3},
		{name: "all optional", expr: "PropTypes.oneOfType([A, B, C])", arms: 4, optional: true},
		{name: "mixed", expr: "PropTypes.oneOfType([A, B.isRequired, C])", arms: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, id := parseValue(t, tt.expr)

			got, err := proptypes.Convert(tree, id, nil)
			require.NoError(t, err)

			union, ok := got.Type.(proptypes.Union)
			require.True(t, ok)
			assert.Len(t, union.Arms, tt.arms)
			assert.Equal(t, tt.optional, got.Optional)
		})
	}
}

func TestConvert_Shape(t *testing.T) {
	t.Parallel()

	tree, id := parseValue(t, `PropTypes.shape({
  // the label
  label: PropTypes.string.isRequired, // trailing
  /* how many */
  count: PropTypes.number,
  ...rest,
  other: Custom,
  "data-id": PropTypes.string,
})`)

	got, err := proptypes.Convert(tree, id, map[string]string{"Custom": "Mapped"})
	require.NoError(t, err)
	assert.True(t, got.Optional)

	record, ok := got.Type.(*proptypes.Record)
	require.True(t, ok)
	require.Len(t, record.Fields, 4)

	names := make([]string, 0, len(record.Fields))
	for _, field := range record.Fields {
		names = append(names, field.Name)
	}

	assert.Equal(t, []string{"label", "count", "other", `"data-id"`}, names)
	assert.False(t, record.Fields[0].Optional)
	assert.True(t, record.Fields[1].Optional)
	assert.Equal(t, []string{"// the label"}, record.Fields[0].Doc)
	assert.Equal(t, []string{"/* how many */"}, record.Fields[1].Doc)
	assert.Empty(t, record.Fields[2].Doc)

	want := `{
  // the label
  label: string;
  /* how many */
  count?: number;
  other?: Mapped;
  "data-id"?: string;
}`

	assert.Equal(t, want, proptypes.Render(record, 0))
}

func TestConvertShape_BraceCommentAndComputedKey(t *testing.T) {
	t.Parallel()

	tree, id := parseValue(t, `{ // about the props
  label: PropTypes.string,
  // dropped with the computed entry
  [key]: PropTypes.string,
  // the count
  count: PropTypes.number,
}`)

	record, err := proptypes.ConvertShape(tree, id, nil)
	require.NoError(t, err)
	require.Len(t, record.Fields, 2)

	assert.Equal(t, "label", record.Fields[0].Name)
	assert.Empty(t, record.Fields[0].Doc)
	assert.Equal(t, "count", record.Fields[1].Name)
	assert.Equal(t, []string{"// the count"}, record.Fields[1].Doc)
}

func TestConvertShape_NestedShape(t *testing.T) {
	t.Parallel()

	tree, id := parseValue(t, `{
  user: PropTypes.shape({
    name: PropTypes.string.isRequired,
  }).isRequired,
}`)
	require.Equal(t, "object", tree.Kind(id))

	record, err := proptypes.ConvertShape(tree, id, nil)
	require.NoError(t, err)

	want := `{
  user: {
    name: string;
  };
}`

	assert.Equal(t, want, proptypes.Render(record, 0))
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		kind error
		pos  jsast.Position
	}{
		{
			name: "unknown primitive",
			expr: "PropTypes.symbol",
			kind: proptypes.ErrUnsupportedPrimitive,
			pos:  jsast.Position{Line: 1, Column: 5},
		},
		{
			name: "shape of array",
			expr: "PropTypes.shape([])",
			kind: proptypes.ErrInvalidArgumentShape,
			pos:  jsast.Position{Line: 1, Column: 21},
		},
		{
			name: "union of object",
			expr: "PropTypes.oneOfType({})",
			kind: proptypes.ErrInvalidArgumentShape,
			pos:  jsast.Position{Line: 1, Column: 25},
		},
		{
			name: "unsupported complex type",
			expr: "PropTypes.arrayOf(PropTypes.string)",
			kind: proptypes.ErrUnconvertiblePropertyType,
			pos:  jsast.Position{Line: 1, Column: 5},
		},
		{
			name: "literal",
			expr: `"text"`,
			kind: proptypes.ErrUnconvertiblePropertyType,
			pos:  jsast.Position{Line: 1, Column: 5},
		},
		{
			name: "nested failure",
			expr: "PropTypes.oneOfType([PropTypes.string, PropTypes.any])",
			kind: proptypes.ErrUnsupportedPrimitive,
			pos:  jsast.Position{Line: 1, Column: 44},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, id := parseValue(t, tt.expr)

			_, err := proptypes.Convert(tree, id, nil)
			require.ErrorIs(t, err, tt.kind)

			pos, ok := jsast.PositionOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.pos, pos)
		})
	}
}

func TestConvert_MissingArgument(t *testing.T) {
	t.Parallel()

	tree, id := parseValue(t, "PropTypes.shape()")

	_, err := proptypes.Convert(tree, id, nil)
	require.ErrorIs(t, err, proptypes.ErrInvalidArgumentShape)

	var transformErr *proptypes.TransformError
	require.ErrorAs(t, err, &transformErr)
	assert.NotNil(t, transformErr.Pos)
}
