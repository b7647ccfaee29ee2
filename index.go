package inkwell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// IndexDateLayout is the date format of posts/index.json: ISO 8601 in UTC
// with millisecond precision.
const IndexDateLayout = "2006-01-02T15:04:05.000Z07:00"

// PostsIndex is the manifest the client fetches from /posts/index.json.
type PostsIndex struct {
	Posts []PostSummary `json:"posts"`
}

// PostSummary is the public projection of a Post.
type PostSummary struct {
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Date    IndexDate `json:"date"`
	Excerpt string    `json:"excerpt"`
}

// IndexDate marshals as IndexDateLayout in UTC.
type IndexDate time.Time

func (d IndexDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).UTC().Format(IndexDateLayout))
}

func (d *IndexDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*d = IndexDate(t)
	return nil
}

// BuildIndex projects posts into a PostsIndex, keeping their order.
func BuildIndex(posts []Post) PostsIndex {
	idx := PostsIndex{Posts: make([]PostSummary, 0, len(posts))}
	for _, p := range posts {
		idx.Posts = append(idx.Posts, PostSummary{
			Title:   p.Title,
			Slug:    p.Slug,
			Date:    IndexDate(p.Date),
			Excerpt: p.Excerpt,
		})
	}
	return idx
}

// MarshalIndex encodes idx with two-space indentation. HTML characters are
// not escaped.
func MarshalIndex(idx PostsIndex) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteIndex replaces the manifest at path atomically: readers see either
// the previous file or the complete new one.
func WriteIndex(path string, idx PostsIndex) error {
	data, err := MarshalIndex(idx)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(name)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
