package inkwell

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/inkwell/markdown"
	"github.com/eringen/inkwell/views"
)

// shellPages are the top-level pages built from a named template wrapped in
// the base template. Their slugs are reserved.
var shellPages = []struct {
	template string
	title    string
}{
	{template: "index.html", title: "Home"},
	{template: "blog.html", title: "Blog"},
}

// Builder turns the source tree described by Config into a static site.
type Builder struct {
	Config Config
	Logger *log.Logger

	renderer markdown.Renderer
	now      func() time.Time
}

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithBuildLogger sets the logger build progress is reported to.
func WithBuildLogger(l *log.Logger) BuildOption {
	return func(b *Builder) {
		b.Logger = l
	}
}

// WithRenderer replaces the goldmark markdown renderer.
func WithRenderer(r markdown.Renderer) BuildOption {
	return func(b *Builder) {
		b.renderer = r
	}
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg Config, opts ...BuildOption) *Builder {
	cfg.setDefaults()

	b := &Builder{
		Config:   cfg,
		renderer: markdown.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.Logger == nil {
		b.Logger = discardLogger()
	}
	return b
}

// Result describes a finished build.
type Result struct {
	Pages []Page
	Posts []Post
	Index PostsIndex
}

// Build runs every build step in order. The first failure stops the build
// and is returned as a *BuildError; output written before it stays on disk.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	start := b.now()
	var res Result

	b.Logger.Infof("building %s -> %s", b.Config.SourceDir, b.Config.OutputDir)

	if err := b.prepareOutput(); err != nil {
		return res, err
	}
	if err := b.copyStatic(); err != nil {
		return res, err
	}

	base, err := b.readTemplate("base.html")
	if err != nil {
		return res, buildErr("load templates", b.Config.sourcePath(templatesDir, "base.html"), err)
	}

	if err := b.renderShells(base); err != nil {
		return res, err
	}

	pages, err := b.renderPages(ctx, base)
	if err != nil {
		return res, err
	}
	res.Pages = pages

	posts, err := b.renderPosts(ctx, base)
	if err != nil {
		return res, err
	}
	res.Posts = posts

	res.Index = BuildIndex(posts)
	indexPath := b.Config.outputPath("posts", "index.json")
	if err := WriteIndex(indexPath, res.Index); err != nil {
		return res, buildErr("write index", indexPath, err)
	}

	if err := b.writeFeeds(pages, posts); err != nil {
		return res, err
	}

	b.Logger.Infof("build completed: %d pages, %d posts in %s", len(pages), len(posts), b.now().Sub(start).Round(time.Millisecond))
	return res, nil
}

func (b *Builder) prepareOutput() error {
	for _, dir := range []string{b.Config.OutputDir, b.Config.outputPath("posts")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return buildErr("prepare output", dir, err)
		}
	}
	return nil
}

func (b *Builder) readTemplate(name string) (string, error) {
	data, err := os.ReadFile(b.Config.sourcePath(templatesDir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *Builder) renderShells(base string) error {
	for _, shell := range shellPages {
		src := b.Config.sourcePath(templatesDir, shell.template)
		content, err := b.readTemplate(shell.template)
		if err != nil {
			return buildErr("render shell pages", src, err)
		}
		dst := b.Config.outputPath(shell.template)
		if err := writeOutput(dst, views.WrapBase(base, shell.title, content)); err != nil {
			return buildErr("render shell pages", dst, err)
		}
		b.Logger.Debugf("rendered %s -> %s", src, dst)
	}
	return nil
}

func (b *Builder) renderPages(ctx context.Context, base string) ([]Page, error) {
	const step = "render pages"

	sources, err := b.listSources(KindPage)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, buildErr(step, "", err)
		}
		page, err := b.renderPage(src, base)
		if err != nil {
			return nil, buildErr(step, src.path, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (b *Builder) renderPosts(ctx context.Context, base string) ([]Post, error) {
	const step = "render posts"

	sources, err := b.listSources(KindPost)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return []Post{}, nil
	}

	tmpl, err := b.readTemplate("post.html")
	if err != nil {
		return nil, buildErr("load templates", b.Config.sourcePath(templatesDir, "post.html"), err)
	}

	posts := make([]Post, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, buildErr(step, "", err)
		}
		post, err := b.renderPost(src, tmpl, base)
		if err != nil {
			return nil, buildErr(step, src.path, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func writeOutput(path, html string) error {
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
