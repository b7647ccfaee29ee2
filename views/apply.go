// Package views holds the placeholder templating used by the site build and
// the fixed documents the server renders on errors.
package views

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Apply fills {{name}} placeholders in tmpl from vars.
//
// Only the first occurrence of each placeholder is replaced; repeats after it
// are written back untouched, as are placeholders with no entry in vars.
// Values are copied literally and are never scanned for placeholders
// themselves. A stray "{{" before a placeholder is kept as text and does not
// hide the placeholder.
func Apply(tmpl string, vars map[string]string) string {
	seen := make(map[string]bool, len(vars))
	return fasttemplate.ExecuteFuncString(tmpl, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		// fasttemplate cuts from the first "{{"; the token is the part after
		// the last one.
		lead, tag := splitTag(tag)
		n, err := io.WriteString(w, lead)
		if err != nil {
			return n, err
		}

		v, ok := vars[tag]
		if !ok || seen[tag] {
			m, err := io.WriteString(w, startTag+tag+endTag)
			return n + m, err
		}
		seen[tag] = true
		m, err := io.WriteString(w, v)
		return n + m, err
	})
}

// splitTag separates the text fasttemplate read as a tag into the literal
// lead and the placeholder name that ends at "}}".
func splitTag(tag string) (lead, name string) {
	full := startTag + tag
	i := strings.LastIndex(full, startTag)
	return full[:i], full[i+len(startTag):]
}

// WrapBase places content into the site base template.
func WrapBase(base, title, content string) string {
	return Apply(base, map[string]string{
		"title":   title,
		"content": content,
	})
}

// WrapPost places a rendered post body into the post template.
func WrapPost(post, title, content, date string) string {
	return Apply(post, map[string]string{
		"title":   title,
		"content": content,
		"date":    date,
	})
}
