package inkwell

import (
	"path"
	"strings"
)

const headerCacheControl = "Cache-Control"

// Cache-Control values sent by the server.
const (
	CacheRevalidate = "no-cache"
	CacheImmutable  = "public, max-age=31536000, immutable"
	CacheNoStore    = "no-store"
)

// CachePolicy picks the Cache-Control header for a served file.
type CachePolicy struct {
	// Development forces CacheNoStore on every response and overrides the
	// per-extension rules.
	Development bool
}

// Header returns the Cache-Control value for the file name.
func (p CachePolicy) Header(name string) string {
	if p.Development {
		return CacheNoStore
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".json", ".xml":
		return CacheRevalidate
	default:
		return CacheImmutable
	}
}

// ErrorHeader returns the Cache-Control value for error responses.
func (p CachePolicy) ErrorHeader() string {
	return CacheNoStore
}
