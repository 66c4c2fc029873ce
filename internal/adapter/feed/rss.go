package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/simaogato/stockwise-backend/internal/domain"
)

// pubDateLayouts are tried in order for RSS pubDate and Atom timestamps
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z07:00",
}

// RSSReader reads headlines from RSS 2.0 and Atom feeds
type RSSReader struct {
	client *http.Client
}

// NewRSSReader creates a feed reader with the default timeout
func NewRSSReader() *RSSReader {
	return &RSSReader{client: newHTTPClient()}
}

// Headlines implements domain.HeadlineSource
func (r *RSSReader) Headlines(ctx context.Context, feedURL string, limit int) ([]domain.Headline, error) {
	body, err := fetch(ctx, r.client, feedURL, "application/rss+xml, application/atom+xml, application/xml, text/xml")
	if err != nil {
		return nil, err
	}
	return parseFeed(body, feedURL, limit)
}

// parseFeed extracts up to limit headlines. A limit <= 0 returns every item.
func parseFeed(body []byte, feedURL string, limit int) ([]domain.Headline, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty feed document")
	}

	switch root.Tag {
	case "rss", "RDF":
		return parseRSS(doc, feedURL, limit), nil
	case "feed":
		return parseAtom(root, feedURL, limit), nil
	default:
		return nil, fmt.Errorf("unsupported feed root element %q", root.Tag)
	}
}

func parseRSS(doc *etree.Document, feedURL string, limit int) []domain.Headline {
	source := hostOf(feedURL)
	if title := doc.FindElement("//channel/title"); title != nil && strings.TrimSpace(title.Text()) != "" {
		source = strings.TrimSpace(title.Text())
	}

	var headlines []domain.Headline
	for _, item := range doc.FindElements("//item") {
		if limit > 0 && len(headlines) >= limit {
			break
		}
		h := domain.Headline{
			Title:  childText(item, "title"),
			Link:   childText(item, "link"),
			Source: source,
		}
		if h.Title == "" {
			continue
		}
		h.PublishedAt = parseTime(childText(item, "pubDate"))
		headlines = append(headlines, h)
	}
	return headlines
}

func parseAtom(root *etree.Element, feedURL string, limit int) []domain.Headline {
	source := childText(root, "title")
	if source == "" {
		source = hostOf(feedURL)
	}

	var headlines []domain.Headline
	for _, entry := range root.SelectElements("entry") {
		if limit > 0 && len(headlines) >= limit {
			break
		}
		h := domain.Headline{
			Title:  childText(entry, "title"),
			Link:   atomLink(entry),
			Source: source,
		}
		if h.Title == "" {
			continue
		}
		published := childText(entry, "published")
		if published == "" {
			published = childText(entry, "updated")
		}
		h.PublishedAt = parseTime(published)
		headlines = append(headlines, h)
	}
	return headlines
}

// atomLink prefers rel="alternate" (or no rel) over other link relations
func atomLink(entry *etree.Element) string {
	var fallback string
	for _, link := range entry.SelectElements("link") {
		href := link.SelectAttrValue("href", "")
		if href == "" {
			continue
		}
		rel := link.SelectAttrValue("rel", "alternate")
		if rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func hostOf(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}
