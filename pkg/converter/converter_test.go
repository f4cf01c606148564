package converter_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/propconv/pkg/converter"
	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
	"github.com/Sumatoshi-tech/propconv/pkg/proptypes"
)

const widgetJSX = `import PropTypes from "prop-types";

function Widget(props) {
  return <b>{props.label}</b>;
}

Widget.propTypes = {
  label: PropTypes.string.isRequired,
};
`

const widgetTSX = `
function Widget(props: WidgetProps): JSX.Element {
  return <b>{props.label}</b>;
}

export type WidgetProps = {
  label: string;
};
`

const brokenJSX = `function Broken(props) {
  return null;
}

Broken.propTypes = {
  id: PropTypes.symbol,
};
`

const utilJS = "export const sum = (a, b) => a + b;\n"

// memFS is an in-memory FS.
type memFS struct {
	files map[string]string
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files}
}

func (m *memFS) Exists(path string) (bool, error) {
	_, ok := m.files[path]

	return ok, nil
}

func (m *memFS) Read(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}

	return []byte(data), nil
}

func (m *memFS) Write(path string, data []byte) error {
	m.files[path] = string(data)

	return nil
}

func (m *memFS) Remove(path string) error {
	delete(m.files, path)

	return nil
}

type handled struct {
	path string
	code string
}

func recordingHandler(calls *[]handled) converter.Handler {
	return converter.HandlerFunc(func(path, code string) error {
		*calls = append(*calls, handled{path: path, code: code})

		return nil
	})
}

func batchFS() *memFS {
	return newMemFS(map[string]string{
		"src/Widget.jsx": widgetJSX,
		"src/Broken.jsx": brokenJSX,
		"src/util.js":    utilJS,
	})
}

func TestConvert_FourOutcomes(t *testing.T) {
	t.Parallel()

	var calls []handled

	conv := converter.New(batchFS())
	paths := []string{"src/Widget.jsx", "src/util.js", "missing/Nope.jsx", "src/Broken.jsx"}

	result := conv.Convert(context.Background(), paths, recordingHandler(&calls))

	assert.Equal(t, []string{"src/Widget.jsx"}, result.Success)
	assert.Equal(t, []string{"src/util.js"}, result.Skipped)
	assert.Equal(t, []string{"missing/Nope.jsx"}, result.NotFound)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "src/Broken.jsx", result.Failed[0].Path)
	require.ErrorIs(t, result.Failed[0].Err, proptypes.ErrUnsupportedPrimitive)
	assert.Equal(t, 4, result.Total())
	assert.NotEmpty(t, result.RunID)

	pos, ok := result.Failed[0].Position()
	require.True(t, ok)
	assert.Equal(t, jsast.Position{Line: 6, Column: 7}, pos)

	require.Len(t, calls, 1)
	assert.Equal(t, "src/Widget.jsx", calls[0].path)
	assert.Equal(t, widgetTSX, calls[0].code)
	assert.Equal(t, int64(len(widgetTSX)), result.BytesWritten)

	// The caller's slice is left as given.
	assert.Equal(t, "src/Widget.jsx", paths[0])
}

func TestConvert_Deterministic(t *testing.T) {
	t.Parallel()

	paths := []string{"b/Widget.jsx", "a/Widget.jsx", "c/none.jsx", "a/util.js"}
	files := func() *memFS {
		return newMemFS(map[string]string{
			"a/Widget.jsx": widgetJSX,
			"b/Widget.jsx": widgetJSX,
			"a/util.js":    utilJS,
		})
	}

	first := converter.New(files()).Convert(context.Background(), paths, converter.Discard())

	reversed := []string{paths[3], paths[2], paths[1], paths[0]}
	second := converter.New(files()).Convert(context.Background(), reversed, converter.Discard())

	assert.Equal(t, []string{"a/Widget.jsx", "b/Widget.jsx"}, first.Success)
	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.Skipped, second.Skipped)
	assert.Equal(t, first.NotFound, second.NotFound)
	assert.Equal(t, first.Failed, second.Failed)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestConvert_HandlerFailure(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")
	handler := converter.HandlerFunc(func(string, string) error { return errDisk })

	result := converter.New(batchFS()).Convert(context.Background(), []string{"src/Widget.jsx"}, handler)

	assert.Empty(t, result.Success)
	require.Len(t, result.Failed, 1)
	require.ErrorIs(t, result.Failed[0].Err, errDisk)
	assert.Equal(t, "src/Widget.jsx: disk full", converter.FailureLine(result.Failed[0]))
}

func TestConvert_PanicIsIsolated(t *testing.T) {
	t.Parallel()

	handler := converter.HandlerFunc(func(path, _ string) error {
		if path == "a/Widget.jsx" {
			panic("boom")
		}

		return nil
	})

	fsys := newMemFS(map[string]string{"a/Widget.jsx": widgetJSX, "b/Widget.jsx": widgetJSX})
	result := converter.New(fsys).Convert(context.Background(), []string{"a/Widget.jsx", "b/Widget.jsx"}, handler)

	require.Len(t, result.Failed, 1)
	require.ErrorIs(t, result.Failed[0].Err, converter.ErrPanic)
	assert.Equal(t, []string{"b/Widget.jsx"}, result.Success)
}

func TestConvert_SyntaxError(t *testing.T) {
	t.Parallel()

	fsys := newMemFS(map[string]string{"Bad.jsx": "const = ;\n"})
	result := converter.New(fsys).Convert(context.Background(), []string{"Bad.jsx"}, converter.Discard())

	require.Len(t, result.Failed, 1)

	var syntaxErr *jsast.SyntaxError
	require.ErrorAs(t, result.Failed[0].Err, &syntaxErr)

	_, ok := result.Failed[0].Position()
	assert.True(t, ok)
}

func TestConvert_RecoveredSyntaxErrorFails(t *testing.T) {
	t.Parallel()

	sources := map[string]string{
		"Unclosed.jsx": "function Unclosed(props) {\n  return props.x\n\nUnclosed.propTypes = { x: PropTypes.string };\n",
		"Paren.jsx":    "function Paren(props) { if (props.a { return 1 } }\nParen.propTypes = { a: PropTypes.string };\n",
	}

	fsys := newMemFS(map[string]string{})
	for path, src := range sources {
		fsys.files[path] = src
	}

	result := converter.New(fsys).Convert(context.Background(), []string{"Unclosed.jsx", "Paren.jsx"}, converter.ReplaceExtension(fsys, ".tsx"))

	assert.Empty(t, result.Success)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Failed, 2)

	for _, failure := range result.Failed {
		var syntaxErr *jsast.SyntaxError
		require.ErrorAs(t, failure.Err, &syntaxErr, failure.Path)
	}

	assert.Equal(t, sources, fsys.files)
}

func TestConvert_Metrics(t *testing.T) {
	t.Parallel()

	metrics := converter.NewMetrics(nil)

	conv := converter.New(batchFS())
	conv.Recorder = metrics

	conv.Convert(context.Background(), []string{"src/Widget.jsx", "src/util.js", "x.jsx", "src/Broken.jsx"}, converter.Discard())

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Files(converter.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Files(converter.OutcomeSkipped)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Files(converter.OutcomeNotFound)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Files(converter.OutcomeFailed)), 0)
}
