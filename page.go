package inkwell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/eringen/inkwell/markdown"
	"github.com/eringen/inkwell/views"
)

const (
	markdownExt = ".md"
	dateLayout  = "2006-01-02"
)

type source struct {
	path string
	slug string
}

// listSources returns the markdown files of a collection in directory
// listing order. The collection directory must exist; an empty one is an
// empty collection.
func (b *Builder) listSources(kind Kind) ([]source, error) {
	step := "render " + kind.String() + "s"
	dir := b.Config.sourcePath(collectionDir(kind))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, buildErr(step, dir, err)
	}

	var sources []source
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != markdownExt {
			continue
		}
		sources = append(sources, source{
			path: filepath.Join(dir, name),
			slug: strings.TrimSuffix(name, markdownExt),
		})
	}

	if err := b.checkSlugs(kind, sources); err != nil {
		return nil, buildErr(step, dir, err)
	}
	return sources, nil
}

func collectionDir(kind Kind) string {
	if kind == KindPost {
		return postsDir
	}
	return pagesDir
}

// checkSlugs rejects sources that would write to the same output file.
// Slugs are compared case-insensitively so builds behave the same on
// case-insensitive filesystems.
func (b *Builder) checkSlugs(kind Kind, sources []source) error {
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		key := strings.ToLower(src.slug)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q and %q", ErrDuplicateSlug, prev, src.path)
		}
		seen[key] = src.path

		if kind == KindPage {
			for _, shell := range shellPages {
				if key == strings.TrimSuffix(shell.template, filepath.Ext(shell.template)) {
					return fmt.Errorf("%w: page %q would overwrite %s", ErrReservedSlug, src.path, shell.template)
				}
			}
		}
		if !slug.IsSlug(src.slug) {
			b.Logger.Warnf("%s slug %q is not URL-safe", kind, src.slug)
		}
	}
	return nil
}

func (b *Builder) renderPage(src source, base string) (Page, error) {
	raw, err := os.ReadFile(src.path)
	if err != nil {
		return Page{}, err
	}
	body, err := b.renderer.Render(raw)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Slug:        src.slug,
		Title:       markdown.Title(raw),
		ContentHTML: string(body),
		SourcePath:  src.path,
	}

	dst := b.Config.outputPath(page.Slug + ".html")
	if err := writeOutput(dst, views.WrapBase(base, page.Title, page.ContentHTML)); err != nil {
		return Page{}, err
	}
	b.Logger.Debugf("rendered page %s -> %s", src.path, dst)
	return page, nil
}

func (b *Builder) renderPost(src source, tmpl, base string) (Post, error) {
	raw, err := os.ReadFile(src.path)
	if err != nil {
		return Post{}, err
	}
	info, err := os.Stat(src.path)
	if err != nil {
		return Post{}, err
	}
	date := info.ModTime()

	if b.Config.FrontMatterDates {
		fm, rest, err := markdown.SplitFrontMatter(raw)
		if err != nil {
			return Post{}, err
		}
		d, ok, err := fm.ParseDate()
		if err != nil {
			return Post{}, err
		}
		if ok {
			date = d
		}
		raw = rest
	}

	body, err := b.renderer.Render(raw)
	if err != nil {
		return Post{}, err
	}

	post := Post{
		Slug:        src.slug,
		Title:       markdown.Title(raw),
		Date:        date,
		ContentHTML: string(body),
		SourcePath:  src.path,
	}
	post.Excerpt = markdown.Excerpt(post.ContentHTML)

	inner := views.WrapPost(tmpl, post.Title, post.ContentHTML, post.Date.Format(dateLayout))
	dst := b.Config.outputPath("posts", post.Slug+".html")
	if err := writeOutput(dst, views.WrapBase(base, post.Title, inner)); err != nil {
		return Post{}, err
	}
	b.Logger.Debugf("rendered post %s -> %s", src.path, dst)
	return post, nil
}
