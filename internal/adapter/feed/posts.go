package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// PostIndex reads posts.json, an array of {date, title, summary, link} records, newest first
type PostIndex struct {
	location string
	client   *http.Client
}

// NewPostIndex creates a source reading posts.json from a URL or a local path
func NewPostIndex(location string) *PostIndex {
	return &PostIndex{
		location: location,
		client:   newHTTPClient(),
	}
}

// FetchPosts implements domain.PostSource
func (p *PostIndex) FetchPosts(ctx context.Context) ([]domain.Post, error) {
	body, err := fetch(ctx, p.client, p.location, "application/json")
	if err != nil {
		return nil, err
	}
	return parsePosts(body)
}

func parsePosts(body []byte) ([]domain.Post, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse post index: %w", err)
	}

	posts := make([]domain.Post, 0, len(records))
	for _, raw := range records {
		var p domain.Post
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}
