// Package views holds the embedded HTML pages and the fiber template engine
// that renders them.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout wraps every page; pass it as fiber.Config.ViewsLayout.
const Layout = "layout"

// New returns an engine over the embedded templates.
func New() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return NewFS(sub)
}

// NewFS returns an engine reading *.html pages from the root of fsys. Page
// names are file names without the extension.
func NewFS(fsys fs.FS) *html.Engine {
	engine := html.NewFileSystem(http.FS(fsys), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	})
	engine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})
	return engine
}
