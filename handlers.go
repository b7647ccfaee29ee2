package inkwell

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/views"
)

// Messages sent with 404 and 500 responses of file routes.
const (
	msgFileNotFound = "File not found"
	msgIndexMissing = "Error loading posts"
	msgPostNotFound = "Post not found"
	msgServerError  = "Internal server error"
)

// topLevelPages are served from the output root by exact route.
var topLevelPages = []struct {
	route string
	file  string
}{
	{route: "/", file: "index.html"},
	{route: "/index.html", file: "index.html"},
	{route: "/blog.html", file: "blog.html"},
	{route: "/about.html", file: "about.html"},
}

// setupRoutes registers the routing table. Echo matches static segments
// before parameters, so /posts/index.json always wins over /posts/:file and
// the exact page routes win over /:file.
func (s *Server) setupRoutes() {
	for _, p := range topLevelPages {
		s.get(p.route, s.serveOutput(p.file, textNotFound(msgFileNotFound)))
	}
	s.get("/posts/index.json", s.serveOutput("posts/index.json", textNotFound(msgIndexMissing)))
	s.get("/posts/:file", s.handlePost)
	s.get("/"+feedFile, s.serveOutput(feedFile, s.handleNotFound))
	s.get("/"+sitemapFile, s.serveOutput(sitemapFile, s.handleNotFound))
	for _, dir := range staticDirs {
		s.get("/"+dir+"/*", s.serveAssets(dir))
	}
	s.get("/:file", s.handlePage)
	s.Echo.RouteNotFound("/*", s.handleNotFound)
}

func (s *Server) get(route string, h echo.HandlerFunc) {
	s.Echo.Match([]string{http.MethodGet, http.MethodHead}, route, h)
}

func (s *Server) serveOutput(rel string, missing echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.serveFile(c, rel, missing)
	}
}

// handlePost serves posts/<slug>.html for /posts/<slug>.html.
func (s *Server) handlePost(c echo.Context) error {
	slug, ok := htmlSlug(c.Param("file"))
	if !ok {
		return s.handleNotFound(c)
	}
	return s.serveFile(c, path.Join("posts", slug+".html"), textNotFound(msgPostNotFound))
}

// handlePage serves the remaining generated top-level pages.
func (s *Server) handlePage(c echo.Context) error {
	slug, ok := htmlSlug(c.Param("file"))
	if !ok {
		return s.handleNotFound(c)
	}
	return s.serveFile(c, slug+".html", s.handleNotFound)
}

// serveAssets serves files below an output subdirectory. Directories are
// never listed.
func (s *Server) serveAssets(dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := url.PathUnescape(c.Param("*"))
		if err != nil {
			return textNotFound(msgFileNotFound)(c)
		}
		rel := strings.TrimPrefix(path.Clean("/"+p), "/")
		if rel == "" {
			return textNotFound(msgFileNotFound)(c)
		}
		return s.serveFile(c, path.Join(dir, rel), textNotFound(msgFileNotFound))
	}
}

func (s *Server) handleNotFound(c echo.Context) error {
	c.Logger().Infof("404 - Not Found: %s", c.Request().URL.Path)
	c.Response().Header().Set(headerCacheControl, s.policy.ErrorHeader())
	return renderStatus(c, http.StatusNotFound, views.NotFound(s.Config.SiteName))
}

// serveFile writes the output file at rel (slash separated). A missing file
// or a directory goes to missing; any other I/O failure is logged and
// answered with a generic 500.
func (s *Server) serveFile(c echo.Context, rel string, missing echo.HandlerFunc) error {
	name := filepath.Join(s.Config.OutputDir, filepath.FromSlash(rel))

	f, err := os.Open(name)
	if err != nil {
		return s.fileError(c, name, err, missing)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return s.fileError(c, name, err, missing)
	}
	if info.IsDir() {
		return missing(c)
	}

	h := c.Response().Header()
	h.Set(headerCacheControl, s.policy.Header(info.Name()))
	h.Set("ETag", etag(info))
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}

func (s *Server) fileError(c echo.Context, name string, err error, missing echo.HandlerFunc) error {
	if errors.Is(err, fs.ErrNotExist) {
		c.Logger().Debugf("missing file %s", name)
		return missing(c)
	}
	c.Logger().Errorf("serve %s: %v", name, err)
	c.Response().Header().Set(headerCacheControl, s.policy.ErrorHeader())
	return c.String(http.StatusInternalServerError, msgServerError)
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = s.handleNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		c.Response().Header().Set(headerCacheControl, s.policy.ErrorHeader())
		_ = renderStatus(c, code, views.ServerError())
		return
	}
	s.Echo.DefaultHTTPErrorHandler(err, c)
}

func textNotFound(msg string) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(headerCacheControl, CacheNoStore)
		return c.String(http.StatusNotFound, msg)
	}
}

// htmlSlug extracts the slug from a "<slug>.html" path segment.
func htmlSlug(segment string) (string, bool) {
	name, err := url.PathUnescape(segment)
	if err != nil {
		return "", false
	}
	slug, ok := strings.CutSuffix(name, ".html")
	if !ok || slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return "", false
	}
	return slug, true
}

func etag(info fs.FileInfo) string {
	return fmt.Sprintf(`W/"%x-%x"`, info.Size(), info.ModTime().UnixNano())
}
