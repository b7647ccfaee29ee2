package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

const (
	// DefaultTitle is used when a document has no level-1 heading.
	DefaultTitle = "Untitled Post"

	// ExcerptLength is the number of characters kept from the stripped body.
	ExcerptLength = 150

	// Ellipsis is appended to every excerpt, truncated or not.
	Ellipsis = "..."
)

var (
	reTitle = regexp.MustCompile(`(?m)^#\s+([^\r\n]+)\r?$`)
	reTag   = regexp.MustCompile(`<[^>]+>`)
)

// ErrInvalidDate is returned when a front matter date cannot be parsed.
var ErrInvalidDate = errors.New("invalid front matter date")

// Title returns the text of the first "# heading" line in src, or
// DefaultTitle when there is none.
func Title(src []byte) string {
	m := reTitle.FindSubmatch(src)
	if m == nil {
		return DefaultTitle
	}
	return string(m[1])
}

// StripTags removes everything that looks like a markup tag. Entities are
// left as they are.
func StripTags(html string) string {
	return reTag.ReplaceAllString(html, "")
}

// Excerpt returns the first ExcerptLength characters of the tag-stripped
// html followed by Ellipsis. Truncation ignores word boundaries.
func Excerpt(html string) string {
	text := []rune(StripTags(html))
	if len(text) > ExcerptLength {
		text = text[:ExcerptLength]
	}
	return string(text) + Ellipsis
}

// FrontMatter is the subset of a YAML front matter block the build reads.
type FrontMatter struct {
	Date string `yaml:"date"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the front matter date. ok is false when no date was set.
func (fm FrontMatter) ParseDate() (t time.Time, ok bool, err error) {
	raw := strings.TrimSpace(fm.Date)
	if raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// SplitFrontMatter separates a leading YAML front matter block from the
// markdown body. Sources without front matter are returned unchanged.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("front matter: %w", err)
	}
	return fm, body, nil
}
