// Package inkwell is a small static site generator for a markdown blog and
// the file server that publishes its output.
//
// A Builder renders content/pages and content/posts through the HTML
// templates of a source tree and writes a posts manifest to
// posts/index.json. A Server serves the output directory with explicit
// routes, per-extension caching and a custom 404 page.
package inkwell

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

// Server serves a built site. It holds no state besides its configuration;
// every request reads from Config.OutputDir.
type Server struct {
	Config Config
	Echo   *echo.Echo
	Logger *log.Logger

	policy   CachePolicy
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by the server and by echo.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// WithListener serves on ln instead of binding Config.Port.
func WithListener(ln net.Listener) Option {
	return func(s *Server) {
		s.listener = ln
	}
}

// NewServer creates a Server for cfg with its middleware and routes
// registered. Nothing is bound until Listen, Start or Run is called.
func NewServer(cfg Config, opts ...Option) *Server {
	cfg.setDefaults()

	s := &Server{
		Config: cfg,
		Echo:   echo.New(),
		policy: CachePolicy{Development: cfg.NoCache},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = NewLogger("inkwell", cfg.LogLevel)
	}

	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger = s.Logger

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Start binds a port if needed and serves until Shutdown is called.
func (s *Server) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	s.Echo.Listener = ln
	s.Logger.Infof("serving %s at http://%s", s.Config.OutputDir, displayAddr(ln.Addr()))

	if err := s.Echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully. In-flight
// requests are allowed to finish. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-gctx.Done()
		s.Logger.Infof("shutting down, waiting for open requests")
		if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
			return err
		}
		s.Logger.Infof("server closed")
		return nil
	})
	return g.Wait()
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	host := "localhost"
	if !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(tcp.Port))
}
