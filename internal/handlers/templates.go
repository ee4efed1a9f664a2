package handlers

import (
	"os"
	"path/filepath"
)

// TemplateDir resolves the template root, TEMPLATES_DIR env or the
// ./templates default, so tests can run from package directories.
func TemplateDir() string {
	if d := os.Getenv("TEMPLATES_DIR"); d != "" {
		return d
	}
	return "templates"
}

func pagePath(name string) string {
	return filepath.Join(TemplateDir(), "pages", name)
}
