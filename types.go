package inkwell

import "time"

// Post is one markdown file from content/posts, built fresh on every run.
type Post struct {
	Slug        string
	Title       string
	Date        time.Time
	ContentHTML string
	Excerpt     string
	SourcePath  string
}

// Page is one markdown file from content/pages. Pages carry no date.
type Page struct {
	Slug        string
	Title       string
	ContentHTML string
	SourcePath  string
}

// Kind selects the templates a markdown source is wrapped in.
type Kind int

const (
	KindPage Kind = iota
	KindPost
)

func (k Kind) String() string {
	if k == KindPost {
		return "post"
	}
	return "page"
}
