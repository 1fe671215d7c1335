// Package site turns the markdown pages of the bootcamp docs into HTML documents.
package site

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/russross/blackfriday/v2"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/page"
)

const (
	IndexPage = "README.md"
	StatsPage = "_stats.md"

	defaultTitle = "Bootcamp"
)

// ErrPageNotFound is returned when no markdown file backs the requested path.
var ErrPageNotFound = errors.New("page not found")

//go:embed templates/layout.html
var templatesFS embed.FS

var layout = template.Must(template.ParseFS(templatesFS, "templates/layout.html"))

// No AutoHeadingIDs: a heading named after a chapter would shadow its placeholder.
const markdownExtensions = blackfriday.CommonExtensions

// Site serves the pages of one docs tree.
type Site struct {
	fsys fs.FS
}

// New serves the docs found in dir.
func New(dir string) *Site {
	return NewFS(os.DirFS(dir))
}

// NewFS serves the docs found in fsys.
func NewFS(fsys fs.FS) *Site {
	return &Site{fsys: fsys}
}

// PagePath maps a request path onto the markdown file backing it.
func PagePath(urlPath string) (string, error) {
	for _, segment := range strings.Split(urlPath, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrPageNotFound, urlPath)
		}
	}

	switch domain.ParseRoute(urlPath) {
	case domain.RouteHome:
		return IndexPage, nil
	case domain.RouteStats:
		return StatsPage, nil
	}

	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	switch {
	case name == "":
		return IndexPage, nil
	case strings.HasSuffix(urlPath, "/"):
		name = path.Join(name, IndexPage)
	case !strings.HasSuffix(name, ".md"):
		name += ".md"
	}

	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrPageNotFound, urlPath)
	}
	return name, nil
}

// Load returns the markdown of the page served at urlPath.
func (s *Site) Load(urlPath string) (string, error) {
	name, err := PagePath(urlPath)
	if err != nil {
		return "", err
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPageNotFound, name)
		}
		return "", fmt.Errorf("failed to read page %s: %w", name, err)
	}
	return string(data), nil
}

// Render converts markdown to HTML and wraps it in the site layout. Raw HTML
// placeholders in the markdown are kept as is.
func (s *Site) Render(markdown string) (*page.Document, error) {
	body := blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(markdownExtensions))

	var buf bytes.Buffer
	err := layout.Execute(&buf, struct {
		Title   string
		Content template.HTML
	}{
		Title:   Title(markdown),
		Content: template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute layout: %w", err)
	}

	return page.Parse(&buf)
}

// Title is the text of the first level-one heading, or a default.
func Title(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
	}
	return defaultTitle
}
