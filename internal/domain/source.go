package domain

import "context"

// PostSource reads the published post index (posts.json)
type PostSource interface {
	// FetchPosts returns the records in file order, newest first.
	// Records that cannot be decoded are dropped.
	FetchPosts(ctx context.Context) ([]Post, error)
}

// HeadlineSource reads news headlines from a syndication feed
type HeadlineSource interface {
	// Headlines returns at most limit items from the feed at url, in feed order
	Headlines(ctx context.Context, url string, limit int) ([]Headline, error)
}
