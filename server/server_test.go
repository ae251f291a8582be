package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sources = map[string]string{
	"Shape.java":  "public abstract class Shape {}\n",
	"Circle.java": "public class Circle extends Shape implements Comparable<Circle> {}\n",
	"Ring.java":   "public class Ring extends Circle {}\n",
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	for name, content := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	c := codebase.New(config.Default(), nil)
	_, err := c.Scan(root)
	require.NoError(t, err)
	return New(c, format.Options{Sort: true}, "test"), root
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestListRoots(t *testing.T) {
	s, root := newTestServer(t)
	result, _, err := s.listRoots(context.Background(), nil, ListRootsArgs{})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var reply rootsReply
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &reply))
	assert.Equal(t, []string{root}, reply.Paths)
	assert.Equal(t, 3, reply.Classes)
	assert.Equal(t, []rootInfo{
		{Name: "Comparable", Descendants: 0},
		{Name: "Shape", File: "Shape.java", Descendants: 2},
	}, reply.Roots)
}

func TestClassInfo(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	result, _, err := s.classInfo(ctx, nil, ClassInfoArgs{Name: "Circle"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, text(t, result), "public class Circle extends Shape implements Comparable")
	assert.Contains(t, text(t, result), "subclasses: Ring")

	result, _, err = s.classInfo(ctx, nil, ClassInfoArgs{Name: "Missing"})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, _, err = s.classInfo(ctx, nil, ClassInfoArgs{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClassTree(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    ClassTreeArgs
		want    []string
		isError bool
	}{
		{"all roots", ClassTreeArgs{}, []string{"  Comparable\n", "  Shape\n", "   - Circle\n", "       - Ring\n"}, false},
		{"one class", ClassTreeArgs{Name: "Circle"}, []string{"  Circle\n", "   - Ring\n"}, false},
		{"graphics", ClassTreeArgs{Name: "Circle", Charset: config.FormatGraphics}, []string{"   └ Ring\n"}, false},
		{"unknown class", ClassTreeArgs{Name: "Missing"}, nil, true},
		{"unknown charset", ClassTreeArgs{Charset: "fancy"}, nil, true},
		{"html charset", ClassTreeArgs{Charset: config.FormatHTML}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := s.classTree(ctx, nil, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.isError, result.IsError)
			out := text(t, result)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRescan(t *testing.T) {
	s, root := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Square.java"), []byte("public class Square extends Shape {}\n"), 0o644))

	result, _, err := s.rescan(context.Background(), nil, RescanArgs{})
	require.NoError(t, err)
	assert.Equal(t, "4 files parsed, 4 classes found", text(t, result))

	summary, ok := s.codebase.Summary("Shape")
	require.True(t, ok)
	assert.Contains(t, summary, "Square")
}

func TestReadGraph(t *testing.T) {
	s, _ := newTestServer(t)
	result, err := s.readGraph(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: graphURI}})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"Ring"`)
}

func TestSchemaMap(t *testing.T) {
	m := buildSchemaMap()
	assert.Len(t, m, 4)
	assert.Contains(t, m["class_info"], `"name"`)
	assert.Contains(t, m["class_tree"], `"charset"`)
}
