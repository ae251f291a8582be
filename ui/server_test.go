package ui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"Shape.java":  "package geo;\npublic abstract class Shape {}\n",
		"Circle.java": "package geo;\npublic class Circle extends Shape implements Comparable<Circle> {}\n",
		"Ring.java":   "package geo;\npublic class Ring extends Circle {}\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	c := codebase.New(config.Default(), nil)
	_, err := c.Scan(root)
	require.NoError(t, err)

	s, err := NewServer(c, format.Options{Sort: true, Title: "geo"})
	require.NoError(t, err)
	return s, root
}

func get(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>geo</title>")
	assert.Contains(t, body, "3 files parsed, 3 classes found")
	assert.Contains(t, body, `<a href="/c/Shape">Shape</a>`)
	assert.Contains(t, body, "└ Ring")
}

func TestClassPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, http.MethodGet, "/c/Circle")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Circle</h1>")
	assert.Contains(t, body, "<dd>geo</dd>")
	assert.Contains(t, body, `<a href="/c/Shape">Shape</a>`)
	assert.Contains(t, body, `<a href="/c/Comparable">Comparable</a>`)
	assert.Contains(t, body, "Ring")

	rec = get(t, s, http.MethodGet, "/c/Comparable")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "implemented by")

	rec = get(t, s, http.MethodGet, "/c/Missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSidebar(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, http.MethodGet, "/sidebar?q=ir")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1 classes match")
	assert.Contains(t, body, `<a href="/c/Circle">Circle</a>`)
	assert.NotContains(t, body, `<a href="/c/Ring">`)
}

func TestTableAndJSON(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, http.MethodGet, "/table")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 classes")

	rec = get(t, s, http.MethodGet, "/graph.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"Circle"`)
}

func TestRescan(t *testing.T) {
	s, root := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Square.java"), []byte("public class Square extends Shape {}\n"), 0o644))

	rec := get(t, s, http.MethodPost, "/rescan")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = get(t, s, http.MethodGet, "/c/Square")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatic(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, http.MethodGet, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pre.tree")
}
