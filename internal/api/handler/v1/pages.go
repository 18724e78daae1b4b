package v1

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/portfolio-site/internal/api/handler/v1/response"
)

const (
	indexPage    = "index.html"
	assetsMaxAge = "public, max-age=31536000"
)

// Pages maps each site route to its HTML file.
var Pages = map[string]string{
	"/":         indexPage,
	"/about":    "about.html",
	"/skills":   "skills.html",
	"/projects": "projects.html",
	"/contact":  "contact.html",
}

// PageHandler serves the static site from a directory on disk.
type PageHandler struct {
	dir   string
	files fs.FS
}

func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{
		dir:   dir,
		files: os.DirFS(dir),
	}
}

// HandlePage serves a fixed HTML file.
func (h *PageHandler) HandlePage(file string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		h.serve(ctx, file)
	}
}

// HandleFallback serves any existing asset under the site root and falls
// back to the home page for every other GET or HEAD request.
func (h *PageHandler) HandleFallback(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
		response.RenderErr(ctx, response.ErrNotFound())
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+ctx.Request.URL.Path), "/")
	if name != "" && name != indexPage && h.isFile(name) {
		ctx.Header("Cache-Control", assetsMaxAge)
		h.serve(ctx, name)
		return
	}

	h.serve(ctx, indexPage)
}

// serve writes a file without http.ServeFile's index.html redirect.
func (h *PageHandler) serve(ctx *gin.Context, name string) {
	f, err := os.Open(h.path(name))
	if err != nil {
		zap.L().Warn("static file unavailable", zap.String("file", name), zap.Error(err))
		response.RenderErr(ctx, response.ErrNotFound())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		response.RenderErr(ctx, response.ErrNotFound())
		return
	}

	http.ServeContent(ctx.Writer, ctx.Request, info.Name(), info.ModTime(), f)
}

func (h *PageHandler) path(name string) string {
	return filepath.Join(h.dir, filepath.FromSlash(name))
}

func (h *PageHandler) isFile(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(h.files, name)
	return err == nil && !info.IsDir()
}
