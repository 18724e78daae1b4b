package v1

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":    "<h1>home</h1>",
		"about.html":    "<h1>about</h1>",
		"skills.html":   "<h1>skills</h1>",
		"projects.html": "<h1>projects</h1>",
		"contact.html":  "<h1>contact</h1>",
		"css/style.css": "body{}",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func newPageRouter(dir string) *gin.Engine {
	h := NewPageHandler(dir)
	r := gin.New()
	for route, file := range Pages {
		r.GET(route, h.HandlePage(file))
	}
	r.NoRoute(h.HandleFallback)
	return r
}

func TestPageHandler_MissingPage(t *testing.T) {
	r := newPageRouter(t.TempDir())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Not found"}`, w.Body.String())
}

func TestPageHandler_Pages(t *testing.T) {
	r := newPageRouter(writeSite(t))

	cases := map[string]string{
		"/":         "<h1>home</h1>",
		"/about":    "<h1>about</h1>",
		"/skills":   "<h1>skills</h1>",
		"/projects": "<h1>projects</h1>",
		"/contact":  "<h1>contact</h1>",
	}
	for route, want := range cases {
		t.Run(route, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, want, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		})
	}
}

func TestPageHandler_Fallback(t *testing.T) {
	r := newPageRouter(writeSite(t))

	t.Run("asset", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/css/style.css", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "body{}", w.Body.String())
		assert.Equal(t, "public, max-age=31536000", w.Header().Get("Cache-Control"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	})

	t.Run("unknown path serves home page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<h1>home</h1>", w.Body.String())
		assert.Empty(t, w.Header().Get("Cache-Control"))
	})

	t.Run("directory serves home page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/css", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<h1>home</h1>", w.Body.String())
	})

	t.Run("index.html is served in place", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
		assert.Equal(t, "<h1>home</h1>", w.Body.String())
	})

	t.Run("head request has no body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/about", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("other methods are not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Not found"}`, w.Body.String())
	})
}
