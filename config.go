package inkwell

import (
	"net"
	"path/filepath"
	"strconv"
)

// Config holds all configuration for building and serving a site. It is
// constructed once, usually by the CLI, and passed by value to NewBuilder
// and NewServer.
type Config struct {
	SourceDir string `mapstructure:"source"` // Site sources (default ".")
	OutputDir string `mapstructure:"output"` // Build output, served by the server (default "dist")

	Host         string `mapstructure:"host"`          // Bind host (default all interfaces)
	Port         int    `mapstructure:"port"`          // First port tried (default 3000, RandomPort lets the OS pick)
	PortAttempts int    `mapstructure:"port_attempts"` // Ports probed upward when busy (default 50)

	// NoCache sends Cache-Control: no-store on every response. When set it
	// takes precedence over the per-extension policy.
	NoCache bool `mapstructure:"no_cache"`

	// FrontMatterDates lets a post's YAML front matter "date" replace the
	// file modification time. The block is stripped before rendering.
	FrontMatterDates bool `mapstructure:"front_matter_dates"`

	SiteName    string `mapstructure:"site_name"`   // Shown on the 404 page and as feed title (default "My Blog")
	Description string `mapstructure:"description"` // Feed description

	// BaseURL is the public address of the site, e.g. "https://example.com".
	// When set, the build also writes feed.xml and sitemap.xml.
	BaseURL string `mapstructure:"base_url"`

	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error, off (default "info")
}

func (c *Config) setDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.PortAttempts <= 0 {
		c.PortAttempts = 50
	}
	if c.SiteName == "" {
		c.SiteName = "My Blog"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// RandomPort as Config.Port binds whatever port the OS hands out.
const RandomPort = -1

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.setDefaults()
	return c
}

// Addr returns the first listen address tried.
func (c Config) Addr() string {
	port := c.Port
	if port == RandomPort {
		port = 0
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Source layout, relative to Config.SourceDir.
const (
	postsDir     = "content/posts"
	pagesDir     = "content/pages"
	templatesDir = "templates"
	clientDir    = "client"
)

func (c Config) sourcePath(elem ...string) string {
	return filepath.Join(append([]string{c.SourceDir}, elem...)...)
}

func (c Config) outputPath(elem ...string) string {
	return filepath.Join(append([]string{c.OutputDir}, elem...)...)
}
