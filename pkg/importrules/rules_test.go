package importrules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/propconv/pkg/importrules"
	"github.com/Sumatoshi-tech/propconv/pkg/jsast"
)

// rewrite applies rules to every import of src and returns the printed
// result and whether each import matched.
func rewrite(t *testing.T, src string, rules []importrules.Rule) (string, []bool) {
	t.Helper()

	tree, err := jsast.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	var matched []bool

	for _, id := range tree.Find("import_statement") {
		imp, openErr := importrules.OpenImport(tree, id)
		require.NoError(t, openErr)

		ok, applyErr := importrules.ApplyRules(imp, rules)
		require.NoError(t, applyErr)

		matched = append(matched, ok)
	}

	return tree.Print(), matched
}

func TestApplyRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		rules   []importrules.Rule
		want    string
		matched []bool
	}{
		{
			name:    "default table renames default import",
			src:     "import FileType from \"prop-types/FileType\";\n",
			rules:   importrules.DefaultRules(),
			want:    "import { File } from \"model/File\";\n",
			matched: []bool{true},
		},
		{
			name: "default to default",
			src:  "import FileType from \"prop-types/FileType\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`prop-types/FileType$`, "model/File",
					importrules.Replace(importrules.Default("FileType"), importrules.Default("File"))),
			},
			want:    "import File from \"model/File\";\n",
			matched: []bool{true},
		},
		{
			name:    "bare prop-types import is removed",
			src:     "import PropTypes from 'prop-types';\nimport React from \"react\";\n",
			rules:   importrules.DefaultRules(),
			want:    "import React from \"react\";\n",
			matched: []bool{true, false},
		},
		{
			name: "capture groups and quote style",
			src:  "import { Task } from 'legacy/TaskType';\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`^legacy/(\w+)Type$`, "model/$1"),
			},
			want:    "import { Task } from 'model/Task';\n",
			matched: []bool{true},
		},
		{
			name: "only the first match is substituted",
			src:  "import x from \"aaa\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`a`, "b"),
			},
			want:    "import x from \"baa\";\n",
			matched: []bool{true},
		},
		{
			name: "untouched specifiers keep aliases",
			src:  "import Def, { A as B, C } from \"x/y\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`^x/y$`, "z",
					importrules.Replace(importrules.Value("C"), importrules.Value("D"))),
			},
			want:    "import Def, { A as B, D } from \"z\";\n",
			matched: []bool{true},
		},
		{
			name: "first symbol rule per specifier",
			src:  "import { A } from \"m\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`^m$`, "m",
					importrules.Replace(importrules.Value("A"), importrules.Value("B")),
					importrules.Replace(importrules.Value("A"), importrules.Value("C"))),
			},
			want:    "import { B } from \"m\";\n",
			matched: []bool{true},
		},
		{
			name: "namespace import counts as value",
			src:  "import * as NS from \"m\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`^m$`, "n",
					importrules.Replace(importrules.Value("NS"), importrules.Value("M"))),
			},
			want:    "import { M } from \"n\";\n",
			matched: []bool{true},
		},
		{
			name: "kind must match",
			src:  "import { FileType } from \"x\";\n",
			rules: []importrules.Rule{
				importrules.Rewrite(`^x$`, "x",
					importrules.Replace(importrules.Default("FileType"), importrules.Value("File"))),
			},
			want:    "import { FileType } from \"x\";\n",
			matched: []bool{true},
		},
		{
			name:    "no rule matches",
			src:     "import React from \"react\";\n",
			rules:   importrules.DefaultRules(),
			want:    "import React from \"react\";\n",
			matched: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, matched := rewrite(t, tt.src, tt.rules)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

type countingRule struct {
	calls int
}

func (r *countingRule) Apply(*importrules.Import) (bool, error) {
	r.calls++

	return true, nil
}

func TestApplyRules_FirstMatchWins(t *testing.T) {
	t.Parallel()

	second := &countingRule{}
	rules := []importrules.Rule{
		importrules.Rewrite(`^lib/`, "first/"),
		second,
	}

	got, matched := rewrite(t, "import a from \"lib/a\";\n", rules)

	assert.Equal(t, "import a from \"first/a\";\n", got)
	assert.Equal(t, []bool{true}, matched)
	assert.Zero(t, second.calls)

	_, matched = rewrite(t, "import b from \"other\";\n", rules)
	assert.Equal(t, []bool{true}, matched)
	assert.Equal(t, 1, second.calls)
}

func TestApplyRules_RewrittenSourceIsStable(t *testing.T) {
	t.Parallel()

	tree, err := jsast.Parse(context.Background(), []byte("import { File } from \"model/File\";\n"))
	require.NoError(t, err)

	imp, err := importrules.OpenImport(tree, tree.Find("import_statement")[0])
	require.NoError(t, err)

	matched, err := importrules.ApplyRules(imp, importrules.DefaultRules())
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Zero(t, tree.Edits())
}

func TestOpenImport(t *testing.T) {
	t.Parallel()

	tree, err := jsast.Parse(context.Background(), []byte("import D, { a, b as c } from './x';\nconst y = 1;\n"))
	require.NoError(t, err)

	imp, err := importrules.OpenImport(tree, tree.Find("import_statement")[0])
	require.NoError(t, err)

	assert.Equal(t, "./x", imp.Source())
	assert.Equal(t, []importrules.Specifier{
		{Form: importrules.FormDefault, Imported: "D", Local: "D"},
		{Form: importrules.FormNamed, Imported: "a", Local: "a"},
		{Form: importrules.FormNamed, Imported: "b", Local: "c"},
	}, imp.Specifiers())
	assert.Equal(t, importrules.Value("c"), imp.Specifiers()[2].Symbol())

	_, err = importrules.OpenImport(tree, tree.Find("lexical_declaration")[0])
	require.ErrorIs(t, err, importrules.ErrNotImport)
}

func TestDeriveTypeMapping(t *testing.T) {
	t.Parallel()

	mapping := importrules.DeriveTypeMapping(importrules.DefaultRules())
	assert.Equal(t, "File", mapping["FileType"])
	assert.Equal(t, "Action", mapping["ActionType"])
	assert.Equal(t, "TemplateIcon", mapping["TemplateIconType"])
	assert.NotContains(t, mapping, "PropTypes")

	rules := []importrules.Rule{
		importrules.Rewrite(`a`, "a", importrules.Replace(importrules.Value("X"), importrules.Value("Y"))),
		importrules.Remove(`b`),
		importrules.Rewrite(`c`, "c", importrules.Replace(importrules.Default("X"), importrules.Value("Z"))),
	}

	assert.Equal(t, importrules.TypeMapping{"X": "Y"}, importrules.DeriveTypeMapping(rules))
}

func TestSymbolImport_Equality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, importrules.Default("A"), importrules.Default("A"))
	assert.NotEqual(t, importrules.Default("A"), importrules.Value("A"))
	assert.NotEqual(t, importrules.Value("A"), importrules.Value("B"))
	assert.Equal(t, "default A", importrules.Default("A").String())
}
