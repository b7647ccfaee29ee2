package inkwell

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// staticDirs are copied from client/ into the output root as-is.
var staticDirs = []string{"css", "js"}

func (b *Builder) copyStatic() error {
	const step = "copy static assets"

	for _, dir := range staticDirs {
		src := b.Config.sourcePath(clientDir, dir)
		dst := b.Config.outputPath(dir)
		if err := copyDir(dst, src); err != nil {
			return buildErr(step, src, err)
		}
		b.Logger.Debugf("copied %s -> %s", src, dst)
	}

	entries, err := os.ReadDir(b.Config.sourcePath(clientDir))
	if err != nil {
		return buildErr(step, b.Config.sourcePath(clientDir), err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			continue
		}
		src := b.Config.sourcePath(clientDir, entry.Name())
		if err := copyFile(b.Config.outputPath(entry.Name()), src); err != nil {
			return buildErr(step, src, err)
		}
	}
	return nil
}

// copyDir copies the tree at src into dst, overwriting files that already
// exist. Files in dst with no counterpart in src are kept.
func copyDir(dst, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(target, path)
	})
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
