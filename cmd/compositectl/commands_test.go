package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestEqual(t *testing.T) {
	a := writeFile(t, "a.json", `{"id": 1, "tags": ["x", "y"], "meta": {"k": true}}`)
	b := writeFile(t, "b.yaml", "meta: {k: true}\ntags: [x, y]\nid: 1\n")
	c := writeFile(t, "c.json", `{"id": 1, "tags": ["y", "x"], "meta": {"k": true}}`)

	t.Run("json and yaml with different key order", func(t *testing.T) {
		out, _, err := run(t, "", "equal", a, b)
		require.NoError(t, err)
		assert.Equal(t, "true\n", out)
	})

	t.Run("array order matters", func(t *testing.T) {
		out, _, err := run(t, "", "equal", a, c)
		assert.ErrorIs(t, err, errNotEqual)
		assert.Equal(t, "false\n", out)
	})

	t.Run("stdin", func(t *testing.T) {
		out, _, err := run(t, `{"meta": {"k": true}, "tags": ["x", "y"], "id": 1}`, "equal", a, "-")
		require.NoError(t, err)
		assert.Equal(t, "true\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "equal", a, filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errNotEqual)
	})

	t.Run("wrong arg count", func(t *testing.T) {
		_, _, err := run(t, "", "equal", a)
		assert.Error(t, err)
	})
}

func TestDedupe(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		path := writeFile(t, "docs.json", `[{"a": 1, "b": 2}, {"b": 2, "a": 1}, [1, 2], {"a": 1}, [1, 2]]`)
		out, errOut, err := run(t, "", "dedupe", "--stats", path)
		require.NoError(t, err)
		assert.Equal(t, "{\"a\":1,\"b\":2}\n[1,2]\n{\"a\":1}\n", out)
		assert.Equal(t, "5 documents, 3 distinct\n", errOut)
	})

	t.Run("json lines", func(t *testing.T) {
		path := writeFile(t, "docs.jsonl", "{\"id\": 1}\n{\"id\": 2}\n{\"id\": 1}\n")
		out, _, err := run(t, "", "dedupe", path)
		require.NoError(t, err)
		assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", out)
	})

	t.Run("yaml stream", func(t *testing.T) {
		path := writeFile(t, "docs.yaml", "id: 1\n---\nid: 1\n---\nid: 3\n")
		out, _, err := run(t, "", "dedupe", path)
		require.NoError(t, err)
		assert.Equal(t, "{\"id\":1}\n{\"id\":3}\n", out)
	})

	t.Run("explicit format overrides extension", func(t *testing.T) {
		path := writeFile(t, "docs.txt", "- {k: v}\n- {k: v}\n")
		out, _, err := run(t, "", "--format", "yaml", "dedupe", path)
		require.NoError(t, err)
		assert.Equal(t, "{\"k\":\"v\"}\n", out)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeFile(t, "docs.json", `[]`)
		_, _, err := run(t, "", "--format", "xml", "dedupe", path)
		assert.ErrorContains(t, err, "unknown format")
	})
}

func TestExecuteExitCodes(t *testing.T) {
	a := writeFile(t, "a.json", `[1]`)
	b := writeFile(t, "b.json", `[2]`)

	assert.Equal(t, exitOK, execute([]string{"equal", a, a}))
	assert.Equal(t, exitDifferent, execute([]string{"equal", a, b}))
	assert.Equal(t, exitError, execute([]string{"equal", a}))
}
