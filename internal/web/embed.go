package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
)

const (
	templateDir       = "templates"
	templateExtension = ".gohtml"

	// devTemplateDir is read from disk in dev mode, relative to the repository root.
	devTemplateDir = "./internal/web/templates"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templateEmbedFS is a wrapper around embed.FS to implement fs.FS interface
// for the 'templates' directory.
type templateEmbedFS struct {
	content embed.FS
}

// Open opens the named file from the 'templates' directory.
func (e templateEmbedFS) Open(name string) (fs.File, error) {
	return e.content.Open(path.Join(templateDir, name))
}

// templatesFS returns the embedded views.
func templatesFS() http.FileSystem {
	return http.FS(templateEmbedFS{embeddedTemplates})
}

// staticFS returns the embedded assets, rooted above the 'static' directory.
func staticFS() http.FileSystem {
	return http.FS(embeddedStaticFiles)
}
