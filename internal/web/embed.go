// Package web embeds the mobile dispatch UI served next to the API.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var staticFiles embed.FS

// GetFileSystem returns the embedded filesystem with the dist folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// RegisterStaticRoutes serves the UI for every non-API GET. Unknown paths
// fall back to index.html. Register the API routes first.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := GetFileSystem()
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(staticFS))

	e.GET("/*", func(c echo.Context) error {
		name := strings.TrimPrefix(path.Clean(c.Request().URL.Path), "/")
		if strings.HasPrefix(name, "api/") {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		if name == "." || name == "index.html" || !isFile(staticFS, name) {
			return serveIndexHTML(c, staticFS)
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	return nil
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}

// serveIndexHTML serves the single page.
func serveIndexHTML(c echo.Context, staticFS fs.FS) error {
	content, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, content)
}

// HasEmbeddedFiles reports whether index.html was embedded.
func HasEmbeddedFiles() bool {
	_, err := fs.Stat(staticFiles, "dist/index.html")
	return err == nil
}
