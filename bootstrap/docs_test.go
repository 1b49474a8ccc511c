package bootstrap

import (
	"testing"

	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/gusakk/fluxsem/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdlibDocs(t *testing.T) {
	files := parseCorpus(t, map[string]string{
		"p": ``,
		"a": `// Package a does *things*.
package a

// x is the answer.
x = 42

builtin undocumented : (v: A) => A

// tz is the default time zone.
option tz = "UTC"
`,
	})
	res, err := BootstrapFiles(files, Options{Prelude: []string{"p"}})
	require.NoError(t, err)

	docs, err := StdlibDocs(res.Stdlib, res.Files)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	a := docs[0]
	assert.Equal(t, "a", a.Path)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "<p>Package a does <em>things</em>.</p>\n", a.Doc)
	assert.Equal(t, []DocValue{
		{PkgPath: "a", Name: "x", Doc: "<p>x is the answer.</p>\n", Type: "int"},
		{PkgPath: "a", Name: "undocumented", Doc: "", Type: "(v: A) => A"},
		{PkgPath: "a", Name: "tz", Doc: "<p>tz is the default time zone.</p>\n", Type: "string"},
	}, a.Values)

	p := docs[1]
	assert.Equal(t, "p", p.Path)
	assert.Equal(t, "", p.Name)
	assert.Empty(t, p.Values)
}

func TestStdlibDocsSkipsUnknownValues(t *testing.T) {
	files := parseCorpus(t, map[string]string{
		"a": "// doc\nx = 1",
	})
	stdlibTypes := types.PolyTypeMapOf(map[string]types.PolyType{
		"a": types.Mono(types.NewRecord(types.Property{Label: "y", Type: types.Int})),
	})
	docs, err := StdlibDocs(stdlibTypes, files)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Values)
}

func TestEmbeddedStdlibDocs(t *testing.T) {
	res, err := BootstrapFS(stdlib.FS(), Options{})
	require.NoError(t, err)
	docs, err := StdlibDocs(res.Stdlib, res.Files)
	require.NoError(t, err)

	var strings *DocPackage
	for i := range docs {
		if docs[i].Path == "strings" {
			strings = &docs[i]
		}
	}
	require.NotNil(t, strings)
	assert.Equal(t, "strings", strings.Name)
	assert.Equal(t, "<p>Package strings manipulates UTF-8 strings.</p>\n", strings.Doc)
	require.NotEmpty(t, strings.Values)
	assert.Equal(t, "toUpper", strings.Values[0].Name)
	assert.Equal(t, "(v: string) => string", strings.Values[0].Type)
	assert.Contains(t, strings.Values[0].Doc, "converts every letter")
}
