package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/inkwell/scaffold"
)

const (
	testBase  = "<html><head><title>{{title}}</title></head><body class=\"base\">{{content}}</body></html>"
	testPost  = "<article class=\"post\"><h1>{{title}}</h1><time>{{date}}</time>{{content}}<p>{{author}}</p></article>"
	testIndex = "<section id=\"posts-container\"></section>"
	testBlog  = "<section class=\"blog\"></section>"
)

// setupTestSite writes a minimal source tree plus files and returns a config
// pointing at it.
func setupTestSite(t *testing.T, files map[string]string) Config {
	t.Helper()
	root := t.TempDir()

	all := map[string]string{
		"templates/base.html":    testBase,
		"templates/post.html":    testPost,
		"templates/index.html":   testIndex,
		"templates/blog.html":    testBlog,
		"client/css/style.css":   "body{}",
		"client/js/main.js":      "console.log('hi')",
		"client/css/fonts/a.txt": "font",
	}
	for k, v := range files {
		all[k] = v
	}
	for rel, content := range all {
		writeTestFile(t, filepath.Join(root, "src", filepath.FromSlash(rel)), content)
	}
	for _, dir := range []string{postsDir, pagesDir} {
		if err := os.MkdirAll(filepath.Join(root, "src", filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	return Config{
		SourceDir: filepath.Join(root, "src"),
		OutputDir: filepath.Join(root, "dist"),
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func readTestIndex(t *testing.T, cfg Config) PostsIndex {
	t.Helper()
	var idx PostsIndex
	if err := json.Unmarshal([]byte(readTestFile(t, cfg.outputPath("posts", "index.json"))), &idx); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	return idx
}

func build(t *testing.T, cfg Config) Result {
	t.Helper()
	res, err := NewBuilder(cfg).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return res
}

func TestBuildHelloPost(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/hello.md": "# Hello World\nBody text.",
	})

	res := build(t, cfg)
	if len(res.Posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(res.Posts))
	}

	html := readTestFile(t, cfg.outputPath("posts", "hello.html"))
	for _, want := range []string{
		"<title>Hello World</title>",
		`<body class="base"><article class="post"><h1>Hello World</h1>`,
		"<p>Body text.</p>",
		"</article></body></html>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("posts/hello.html missing %q:\n%s", want, html)
		}
	}

	idx := readTestIndex(t, cfg)
	if len(idx.Posts) != 1 {
		t.Fatalf("index entries = %d, want 1", len(idx.Posts))
	}
	got := idx.Posts[0]
	if got.Title != "Hello World" || got.Slug != "hello" {
		t.Errorf("entry = %+v", got)
	}
	if !strings.HasPrefix(got.Excerpt, "Hello World") || !strings.HasSuffix(got.Excerpt, "Body text.\n...") {
		t.Errorf("excerpt = %q", got.Excerpt)
	}
	if strings.Contains(got.Excerpt, "<") {
		t.Errorf("excerpt contains markup: %q", got.Excerpt)
	}
}

func TestBuildPostDateFromModTime(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/dated.md": "# Dated\ntext",
	})
	mtime := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(cfg.SourceDir, "content", "posts", "dated.md"), mtime, mtime); err != nil {
		t.Fatal(err)
	}

	res := build(t, cfg)

	if !res.Posts[0].Date.Equal(mtime) {
		t.Errorf("Date = %v, want %v", res.Posts[0].Date, mtime)
	}
	html := readTestFile(t, cfg.outputPath("posts", "dated.html"))
	if want := "<time>" + mtime.Local().Format("2006-01-02") + "</time>"; !strings.Contains(html, want) {
		t.Errorf("post html missing %q:\n%s", want, html)
	}
	raw := readTestFile(t, cfg.outputPath("posts", "index.json"))
	if !strings.Contains(raw, `"date": "2024-01-15T10:30:00.000Z"`) {
		t.Errorf("index date not ISO UTC:\n%s", raw)
	}
}

func TestBuildIndexUsesListingOrder(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/b.md": "# B",
		"content/posts/a.md": "# A",
		"content/posts/c.md": "# C",
	})
	// Newest first by name would be c, b, a; the index must ignore dates.
	for i, name := range []string{"a.md", "b.md", "c.md"} {
		mtime := time.Date(2024, time.March, 10-i, 0, 0, 0, 0, time.UTC)
		if err := os.Chtimes(filepath.Join(cfg.SourceDir, "content", "posts", name), mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	build(t, cfg)

	idx := readTestIndex(t, cfg)
	var slugs []string
	for _, p := range idx.Posts {
		slugs = append(slugs, p.Slug)
	}
	if got := strings.Join(slugs, ","); got != "a,b,c" {
		t.Errorf("index order = %s, want a,b,c", got)
	}
}

func TestBuildSkipsNonMarkdown(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/real.md":        "# Real",
		"content/posts/notes.txt":      "# Not a post",
		"content/posts/SHOUT.MD":       "# Wrong extension case",
		"content/posts/nested/deep.md": "# Nested",
	})

	res := build(t, cfg)
	if len(res.Posts) != 1 || res.Posts[0].Slug != "real" {
		t.Errorf("posts = %+v, want only real", res.Posts)
	}
	if _, err := os.Stat(cfg.outputPath("posts", "notes.html")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("notes.txt should not be rendered")
	}
}

func TestBuildUntitledPost(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/plain.md": "just text\n\n## sub heading",
	})

	res := build(t, cfg)
	if res.Posts[0].Title != "Untitled Post" {
		t.Errorf("Title = %q, want Untitled Post", res.Posts[0].Title)
	}
}

func TestBuildPages(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/pages/about.md":   "# About Me\nHi.",
		"content/pages/contact.md": "Write to me.",
	})

	res := build(t, cfg)
	if len(res.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(res.Pages))
	}

	about := readTestFile(t, cfg.outputPath("about.html"))
	if !strings.Contains(about, "<title>About Me</title>") || !strings.Contains(about, "<p>Hi.</p>") {
		t.Errorf("about.html = %s", about)
	}
	if strings.Contains(about, `class="post"`) {
		t.Errorf("page wrapped in post template: %s", about)
	}

	contact := readTestFile(t, cfg.outputPath("contact.html"))
	if !strings.Contains(contact, "<title>Untitled Post</title>") {
		t.Errorf("contact.html = %s", contact)
	}
}

func TestBuildShellPagesAndStatic(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"client/index.html": "static index, replaced by the rendered one",
		"client/extra.html": "<p>extra</p>",
	})

	build(t, cfg)

	index := readTestFile(t, cfg.outputPath("index.html"))
	if want := "<title>Home</title></head><body class=\"base\">" + testIndex; !strings.Contains(index, want) {
		t.Errorf("index.html = %s", index)
	}
	blog := readTestFile(t, cfg.outputPath("blog.html"))
	if !strings.Contains(blog, "<title>Blog</title>") {
		t.Errorf("blog.html = %s", blog)
	}
	if got := readTestFile(t, cfg.outputPath("extra.html")); got != "<p>extra</p>" {
		t.Errorf("extra.html = %q", got)
	}
	if got := readTestFile(t, cfg.outputPath("css", "style.css")); got != "body{}" {
		t.Errorf("css/style.css = %q", got)
	}
	if got := readTestFile(t, cfg.outputPath("css", "fonts", "a.txt")); got != "font" {
		t.Errorf("css/fonts/a.txt = %q", got)
	}
	if got := readTestFile(t, cfg.outputPath("js", "main.js")); got != "console.log('hi')" {
		t.Errorf("js/main.js = %q", got)
	}
}

func TestBuildOverwritesStaticAssets(t *testing.T) {
	cfg := setupTestSite(t, nil)
	writeTestFile(t, cfg.outputPath("css", "style.css"), "stale stale stale")
	writeTestFile(t, cfg.outputPath("css", "old.css"), "kept")

	build(t, cfg)

	if got := readTestFile(t, cfg.outputPath("css", "style.css")); got != "body{}" {
		t.Errorf("css/style.css = %q, want overwritten", got)
	}
	if got := readTestFile(t, cfg.outputPath("css", "old.css")); got != "kept" {
		t.Errorf("css/old.css = %q, want kept", got)
	}
}

func TestBuildLeavesUnknownPlaceholders(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/p.md": "# P",
	})

	build(t, cfg)

	html := readTestFile(t, cfg.outputPath("posts", "p.html"))
	if !strings.Contains(html, "<p>{{author}}</p>") {
		t.Errorf("unfilled placeholder should stay literal:\n%s", html)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/one.md": "# One\nFirst.",
		"content/posts/two.md": "# Two\nSecond.",
	})

	build(t, cfg)
	first := readTestFile(t, cfg.outputPath("posts", "index.json"))
	build(t, cfg)
	second := readTestFile(t, cfg.outputPath("posts", "index.json"))

	if first != second {
		t.Errorf("index changed between identical builds:\n%s\n---\n%s", first, second)
	}
}

func TestBuildEmptyCollections(t *testing.T) {
	// setupTestSite creates both collection directories empty.
	cfg := setupTestSite(t, nil)

	res := build(t, cfg)
	if len(res.Posts) != 0 || len(res.Pages) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
	raw := readTestFile(t, cfg.outputPath("posts", "index.json"))
	if raw != "{\n  \"posts\": []\n}" {
		t.Errorf("index.json = %q", raw)
	}
}

func TestBuildMissingCollectionDir(t *testing.T) {
	for _, tt := range []struct {
		dir  string
		step string
	}{
		{dir: postsDir, step: "render posts"},
		{dir: pagesDir, step: "render pages"},
	} {
		t.Run(tt.dir, func(t *testing.T) {
			cfg := setupTestSite(t, nil)
			// An index from an earlier build must survive the failed one.
			writeTestFile(t, cfg.outputPath("posts", "index.json"), "previous")
			if err := os.RemoveAll(cfg.sourcePath(filepath.FromSlash(tt.dir))); err != nil {
				t.Fatal(err)
			}

			_, err := NewBuilder(cfg).Build(context.Background())
			var be *BuildError
			if !errors.As(err, &be) || be.Step != tt.step {
				t.Fatalf("err = %v, want *BuildError for %s", err, tt.step)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("err = %v, want not-exist cause", err)
			}
			if got := readTestFile(t, cfg.outputPath("posts", "index.json")); got != "previous" {
				t.Errorf("index.json = %q, want the previous index kept", got)
			}
		})
	}
}

func TestBuildReservedPageSlug(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/pages/blog.md": "# Blog page",
	})

	_, err := NewBuilder(cfg).Build(context.Background())
	if !errors.Is(err, ErrReservedSlug) {
		t.Fatalf("err = %v, want ErrReservedSlug", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Step != "render pages" {
		t.Errorf("err = %#v, want *BuildError for render pages", err)
	}
}

func TestBuildDuplicateSlug(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/hello.md": "# lower",
		"content/posts/Hello.md": "# upper",
	})
	entries, err := os.ReadDir(filepath.Join(cfg.SourceDir, "content", "posts"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Skip("case-insensitive filesystem")
	}

	_, err = NewBuilder(cfg).Build(context.Background())
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("err = %v, want ErrDuplicateSlug", err)
	}
}

func TestBuildMissingBaseTemplate(t *testing.T) {
	cfg := setupTestSite(t, nil)
	if err := os.Remove(filepath.Join(cfg.SourceDir, "templates", "base.html")); err != nil {
		t.Fatal(err)
	}

	_, err := NewBuilder(cfg).Build(context.Background())
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if be.Step != "load templates" || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "base.html") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestBuildMissingPostTemplate(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/p.md": "# P",
	})
	if err := os.Remove(filepath.Join(cfg.SourceDir, "templates", "post.html")); err != nil {
		t.Fatal(err)
	}

	_, err := NewBuilder(cfg).Build(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
	// Steps before the failure have already written their output.
	if _, err := os.Stat(cfg.outputPath("index.html")); err != nil {
		t.Errorf("index.html should exist after a later failure: %v", err)
	}
}

func TestBuildMissingStaticDir(t *testing.T) {
	cfg := setupTestSite(t, nil)
	if err := os.RemoveAll(filepath.Join(cfg.SourceDir, "client", "js")); err != nil {
		t.Fatal(err)
	}

	_, err := NewBuilder(cfg).Build(context.Background())
	var be *BuildError
	if !errors.As(err, &be) || be.Step != "copy static assets" {
		t.Fatalf("err = %v, want copy static assets failure", err)
	}
}

type failingRenderer struct{}

var errRender = errors.New("renderer exploded")

func (failingRenderer) Render([]byte) ([]byte, error) { return nil, errRender }

func TestBuildRendererFailure(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/p.md": "# P",
	})

	_, err := NewBuilder(cfg, WithRenderer(failingRenderer{})).Build(context.Background())
	if !errors.Is(err, errRender) {
		t.Fatalf("err = %v, want renderer error", err)
	}
	if !strings.Contains(err.Error(), "p.md") {
		t.Errorf("error %q does not name the source", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/pages/about.md": "# About",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(cfg).Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBuildFrontMatterDates(t *testing.T) {
	files := map[string]string{
		"content/posts/fm.md": "---\ndate: 2023-06-01\n---\n# Front Matter\nBody.",
	}

	cfg := setupTestSite(t, files)
	cfg.FrontMatterDates = true
	res := build(t, cfg)

	post := res.Posts[0]
	if post.Date.Format("2006-01-02") != "2023-06-01" {
		t.Errorf("Date = %v, want 2023-06-01", post.Date)
	}
	if post.Title != "Front Matter" {
		t.Errorf("Title = %q", post.Title)
	}
	if strings.Contains(post.ContentHTML, "date:") {
		t.Errorf("front matter rendered: %s", post.ContentHTML)
	}

	// Without the option the block is ordinary markdown and mtime is used.
	plain := setupTestSite(t, files)
	res = build(t, plain)
	if res.Posts[0].Date.Format("2006-01-02") == "2023-06-01" {
		t.Errorf("front matter date used without FrontMatterDates")
	}
}

func TestBuildFrontMatterInvalidDate(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/bad.md": "---\ndate: someday\n---\n# Bad",
	})
	cfg.FrontMatterDates = true

	_, err := NewBuilder(cfg).Build(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad.md") {
		t.Fatalf("err = %v, want failure naming bad.md", err)
	}
}

func TestBuildLogsProgress(t *testing.T) {
	cfg := setupTestSite(t, map[string]string{
		"content/posts/Not A Slug.md": "# Spaces",
	})
	var buf bytes.Buffer
	logger := NewLogger("build", "info")
	logger.SetOutput(&buf)

	if _, err := NewBuilder(cfg, WithBuildLogger(logger)).Build(context.Background()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "build completed") {
		t.Errorf("missing completion log: %s", out)
	}
	if !strings.Contains(out, "not URL-safe") {
		t.Errorf("missing slug warning: %s", out)
	}
}

func TestBuildScaffoldSite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "site")
	if _, err := scaffold.Write(src, scaffold.Data{SiteName: "Starter"}); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg := Config{SourceDir: src, OutputDir: filepath.Join(root, "dist")}

	res := build(t, cfg)
	if len(res.Posts) != 1 || res.Posts[0].Title != "Hello World" {
		t.Errorf("posts = %+v", res.Posts)
	}
	for _, rel := range []string{"index.html", "blog.html", "about.html", "posts/hello-world.html", "posts/index.json", "css/style.css", "js/main.js"} {
		if _, err := os.Stat(cfg.outputPath(filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}
}
