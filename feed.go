package inkwell

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"time"
)

// Files written to the output root when Config.BaseURL is set.
const (
	feedFile    = "feed.xml"
	sitemapFile = "sitemap.xml"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeFeeds writes the RSS feed and the sitemap. Both need absolute links,
// so nothing is written without a base URL.
func (b *Builder) writeFeeds(pages []Page, posts []Post) error {
	const step = "write feeds"

	base := b.Config.BaseURL
	if base == "" {
		return nil
	}
	if _, err := url.Parse(base); err != nil {
		return buildErr(step, "", fmt.Errorf("base url: %w", err))
	}

	for _, f := range []struct {
		name string
		doc  any
	}{
		{name: feedFile, doc: buildRSS(b.Config, posts)},
		{name: sitemapFile, doc: buildSitemap(base, pages, posts)},
	} {
		data, err := encodeXML(f.doc)
		if err != nil {
			return buildErr(step, f.name, err)
		}
		dst := b.Config.outputPath(f.name)
		if err := writeOutput(dst, string(data)); err != nil {
			return buildErr(step, dst, err)
		}
		b.Logger.Debugf("wrote %s", dst)
	}
	return nil
}

func buildRSS(cfg Config, posts []Post) rssXML {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := siteURL(cfg.BaseURL, "posts", p.Slug+".html")
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			PubDate:     p.Date.UTC().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.SiteName,
			Link:        siteURL(cfg.BaseURL),
			Description: cfg.Description,
			Items:       items,
		},
	}
}

func buildSitemap(base string, pages []Page, posts []Post) sitemapURLSet {
	urls := []sitemapURL{
		{Loc: siteURL(base)},
		{Loc: siteURL(base, "blog.html")},
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{Loc: siteURL(base, p.Slug+".html")})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     siteURL(base, "posts", p.Slug+".html"),
			LastMod: p.Date.UTC().Format(dateLayout),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// siteURL joins path segments onto base. The site root keeps a trailing
// slash. Segments are escaped.
func siteURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(segments) == 0 {
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		return u.String()
	}
	u.Path = path.Join(append([]string{"/", u.Path}, segments...)...)
	return u.String()
}
