// Package scaffold writes a starter site source tree: templates, a sample
// post and page, stylesheets and the client script that renders the posts
// index.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains the starter site. Files are Go text/template sources
// using [[ ]] delimiters, so the {{placeholder}} tokens of the site
// templates pass through untouched.
//
//go:embed all:site
var Templates embed.FS

const root = "site"

// ErrExists is returned when the target directory already has content.
var ErrExists = errors.New("directory is not empty")

// Data holds the variables available to every scaffold file.
type Data struct {
	SiteName string
}

// Write creates the starter site in dir and returns the paths it wrote.
// dir may exist but must be empty.
func Write(dir string, data Data) ([]string, error) {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrExists, dir)
	}

	var created []string
	err := fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		tmpl, err := template.New(d.Name()).Delims("[[", "]]").Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		if err := writeFile(outPath, tmpl, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		created = append(created, outPath)
		return nil
	})
	if err != nil {
		return created, err
	}
	return created, nil
}

func writeFile(outPath string, tmpl *template.Template, data Data) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ToTitle converts a hyphenated name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func ToTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
