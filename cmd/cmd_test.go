package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gusakk/fluxsem/bootstrap"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// smallCorpus has a prelude package a and a package b importing it.
func smallCorpus(t *testing.T) string {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a/a.flux": "package a\n\n// x is one.\nx = 1\n",
		"b/b.flux": "package b\n\nimport \"a\"\n\ny = a.x\nz = x + 1\n",
	})
	return dir
}

func execute(t *testing.T, config string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "fluxsem.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(config), 0o644))

	root := &cobra.Command{Use: "fluxsem", SilenceUsage: true, SilenceErrors: true}
	Register(root)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckEmbedded(t *testing.T) {
	out, _, err := execute(t, "log_level: error\n", "check")
	require.NoError(t, err)
	assert.Regexp(t, `^ok: \d+ packages, \d+ prelude values\n$`, out)
}

func TestCheckPrograms(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.flux": "y = 1 + 2\nz = today()\n",
		"bad.flux":  "x = 1 + \"a\"\n",
	})

	out, _, err := execute(t, "log_level: error\n", "check", filepath.Join(dir, "good.flux"))
	require.NoError(t, err)
	assert.Contains(t, out, "  y: int\n  z: time\n")

	_, errOut, err := execute(t, "log_level: error\n", "check", filepath.Join(dir, "good.flux"), filepath.Join(dir, "bad.flux"))
	require.Error(t, err)
	assert.Equal(t, "1 of 2 programs do not type check", err.Error())
	assert.Contains(t, errOut, "bad.flux: (E")
}

func TestTypes(t *testing.T) {
	root := smallCorpus(t)

	out, _, err := execute(t, "", "types", "--root", root, "--prelude", "a")
	require.NoError(t, err)
	assert.Equal(t, "a: {x: int}\nb: {y: int, z: int}\n", out)

	out, _, err = execute(t, "", "types", "b", "--root", root, "--prelude", "a")
	require.NoError(t, err)
	assert.Equal(t, "b: {y: int, z: int}\n", out)

	out, _, err = execute(t, "", "types", "--show-prelude", "--root", root, "--prelude", "a")
	require.NoError(t, err)
	assert.Equal(t, "x: int\n", out)

	_, _, err = execute(t, "", "types", "nope", "--root", root, "--prelude", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `package "nope" not found`)
}

func TestDeps(t *testing.T) {
	root := smallCorpus(t)

	out, _, err := execute(t, "", "deps", "b", "--root", root)
	require.NoError(t, err)
	assert.Equal(t, "a\n", out)

	_, _, err = execute(t, "", "deps", "--root", root)
	assert.Error(t, err)
}

func TestDocsFormats(t *testing.T) {
	root := smallCorpus(t)

	out, _, err := execute(t, "", "docs", "--root", root, "--prelude", "a")
	require.NoError(t, err)
	var docs []bootstrap.DocPackage
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Path)
	assert.Equal(t, []bootstrap.DocValue{{PkgPath: "a", Name: "x", Doc: "<p>x is one.</p>\n", Type: "int"}}, docs[0].Values)

	out, _, err = execute(t, "", "docs", "--format", "yaml", "--root", root, "--prelude", "a")
	require.NoError(t, err)
	docs = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].Name)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	root := smallCorpus(t)
	config := "root: " + root + "\nprelude: [a]\ndocs:\n  format: yaml\n"

	out, _, err := execute(t, config, "docs")
	require.NoError(t, err)
	var docs []bootstrap.DocPackage
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs), "config selects yaml")
	assert.Len(t, docs, 2)

	out, _, err = execute(t, config, "docs", "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "flag overrides config")

	_, _, err = execute(t, config, "types", "--prelude", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `package "nope" not found`)
}

func TestErrorsKeepTheirCause(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/a.flux": "package a\n\nx = y\n",
		"b/b.flux": "package b\n\nimport \"c\"\n",
		"c/c.flux": "package c\n\nimport \"b\"\n",
	})

	_, _, err := execute(t, "", "check", "--root", root, "--prelude", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `(E003) type error in package "a"`)
	var typeErr fluxerr.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "a", typeErr.Package)
	assert.ErrorAs(t, err, &fluxerr.UndefinedIdentifier{})

	_, _, err = execute(t, "", "deps", "b", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `(E001) package "b" depends on itself`)
	var cycle fluxerr.SelfDependency
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "b", cycle.Package)
}

func TestBadConfig(t *testing.T) {
	_, _, err := execute(t, "docs:\n  format: toml\n", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load config")
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/std/a/a.flux", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "/std/c", Op: fsnotify.Create}))
	assert.False(t, relevant(fsnotify.Event{Name: "/std/a/a.flux", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "/std/a/.a.flux.swp", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "/std/a/notes.md", Op: fsnotify.Write}))
}

func TestWatchNeedsRoot(t *testing.T) {
	_, _, err := execute(t, "", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch needs a corpus on disk")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRebuildsOnNewPackage(t *testing.T) {
	root := smallCorpus(t)
	opts := &options{root: root, prelude: []string{"a"}}
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, out, opts) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("ok: 2 packages, 1 prelude values"))
	}, 5*time.Second, 20*time.Millisecond)

	writeFiles(t, root, map[string]string{"c/c.flux": "package c\n\nw = 2\n"})

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("ok: 3 packages, 1 prelude values"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
