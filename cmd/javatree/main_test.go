package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Shape.java":  "public abstract class Shape {}\n",
		"Circle.java": "public class Circle extends Shape {}\n",
		"Hidden.java": "class Hidden extends Shape {}\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTreeCommand(t *testing.T) {
	dir := writeSources(t)

	out, errOut, err := run(t, "tree", "-f", "text", dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "3 files parsed, 2 classes found")
	assert.Contains(t, out, "  Shape\n")
	assert.Contains(t, out, "   - Circle\n")
	assert.NotContains(t, out, "Hidden")

	out, errOut, err = run(t, "tree", "-f", "text", "--all", dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "3 files parsed, 3 classes found")
	assert.Contains(t, out, "   - Hidden\n")
}

func TestTreeCommandNames(t *testing.T) {
	dir := writeSources(t)
	out, _, err := run(t, "tree", "--no-tree", "-n", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Class Tree")
	assert.Contains(t, out, "ClassName\tModifiers")
	assert.Contains(t, out, "Circle\tpublic\tShape")
}

func TestTreeCommandSplitDot(t *testing.T) {
	dir := writeSources(t)
	outDir := filepath.Join(t.TempDir(), "graphs")
	_, _, err := run(t, "tree", "-f", "dot", "-Z", "-O", outDir, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "Shape.gv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Shape" -> "Circle"`)
}

func TestTreeCommandErrors(t *testing.T) {
	dir := writeSources(t)

	_, _, err := run(t, "tree", "-f", "fancy", dir)
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "tree", "--split", dir)
	assert.ErrorContains(t, err, "requires the dot format")

	_, _, err = run(t, "tree", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := writeSources(t)
	db := filepath.Join(t.TempDir(), "classes.db")
	_, errOut, err := run(t, "export", "--db", db, dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "wrote 2 nodes, 1 extends and 0 implements edges")
	assert.FileExists(t, db)
}
