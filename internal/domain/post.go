package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MaxPosts is the number of posts kept in the index
	MaxPosts = 20

	// PostDateLayout is the layout of Post.Date
	PostDateLayout = "2006-01-02"
)

// Post is a blog post teaser. Link identifies the post.
type Post struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}

// Normalize trims surrounding whitespace from every field
func (p *Post) Normalize() {
	p.Date = strings.TrimSpace(p.Date)
	p.Title = strings.TrimSpace(p.Title)
	p.Summary = strings.TrimSpace(p.Summary)
	p.Link = strings.TrimSpace(p.Link)
}

// Validate ensures the post can be listed and navigated to
func (p *Post) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidPost)
	}
	if p.Link == "" {
		return fmt.Errorf("%w: link cannot be empty", ErrInvalidPost)
	}
	if p.Date != "" {
		if _, err := time.Parse(PostDateLayout, p.Date); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidPost)
		}
	}
	return nil
}

// Headline is a news item read from an RSS or Atom feed
type Headline struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
}
