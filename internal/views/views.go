// Package views holds the HTML templates rendered by the server.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page.
const Layout = "layouts/base"

//go:embed templates
var templates embed.FS

// NewEngine returns a template engine over the embedded templates.
// mediaURL maps a stored image name to its public URL.
func NewEngine(mediaURL func(string) string) *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("media", mediaURL)
	engine.AddFunc("date", formatDate)
	engine.AddFunc("plural", plural)
	return engine
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006 15:04")
}

// plural picks the singular or plural noun for n.
func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
