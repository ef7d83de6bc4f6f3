package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves the single-page site and its assets.
func Handler() http.Handler {
	root, err := fs.Sub(static, "static")
	if err != nil {
		panic("site: embedded static dir missing: " + err.Error())
	}

	return http.FileServer(http.FS(root))
}
