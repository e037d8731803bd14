package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/kexdocs/internal/config"
)

// Project is a temporary KEX documentation project on disk.
type Project struct {
	t   *testing.T
	Dir string
}

// NewProject creates an empty project in a temp directory.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{t: t, Dir: t.TempDir()}
}

// NewKEXProject creates a project with the standard layout: two declaration files,
// a Docsify static folder, an image and a README linking into the API reference.
func NewKEXProject(t *testing.T) *Project {
	t.Helper()
	p := NewProject(t)
	p.WriteFile("declarations/Block.d.ts", "declare namespace Block {\n    function getId(): number;\n}\n")
	p.WriteFile("declarations/Item.d.ts", "declare namespace Item {\n    function getName(): string;\n}\n")
	p.WriteFile("documentation/static/index.html",
		`<!DOCTYPE html><html><head><link rel="stylesheet" href="vendor/docsify.css"></head>`+
			`<body><div id="app"></div><script src="vendor/docsify.js"></script></body></html>`)
	p.WriteFile("documentation/static/vendor/docsify.css", "body{}")
	p.WriteFile("documentation/static/vendor/docsify.js", "window.$docsify={}")
	p.WriteFile("documentation/static/_sidebar.md", "- [Home](/)\n- [API](api/index.html)\n- [Start](#/getting-started)\n")
	p.WriteFile("images/logo.png", "\x89PNG\r\n")
	p.WriteFile("README.md", "# Kernel Extension\n\n![logo](images/logo.png)\n\nSee the [API reference](api/index.html).\n")
	return p
}

// Path joins rel onto the project directory.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// WriteFile writes content at rel, creating parent directories.
func (p *Project) WriteFile(rel, content string) {
	p.t.Helper()
	full := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		p.t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
}

// Remove deletes rel.
func (p *Project) Remove(rel string) {
	p.t.Helper()
	if err := os.RemoveAll(p.Path(rel)); err != nil {
		p.t.Fatalf("remove %s: %v", rel, err)
	}
}

// Config returns the default configuration rooted at the project.
func (p *Project) Config() *config.Config {
	cfg := config.Default()
	cfg.ProjectDir = p.Dir
	return cfg
}

// Files returns assertions rooted at the project directory.
func (p *Project) Files() *FileAssertions {
	return NewFileAssertions(p.t, p.Dir)
}
