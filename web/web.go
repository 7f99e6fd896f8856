// Package web embeds the HTML templates and browser assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/nagardrishti/complaint-service/internal/category"
)

//go:embed templates static
var content embed.FS

// NewEngine returns the template engine used by fiber.Render.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(sub("templates")), ".html")
	engine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})
	engine.AddFunc("categoryName", category.Name)
	engine.AddFunc("datetime", func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006 15:04")
	})
	return engine
}

// Static serves script and style assets.
func Static() http.FileSystem {
	return http.FS(sub("static"))
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return f
}
