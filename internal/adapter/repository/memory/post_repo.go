package memory

import (
	"context"
	"sync"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// postRepository is an in-memory implementation of domain.PostRepository
type postRepository struct {
	mu    sync.RWMutex
	posts []domain.Post // newest first
}

// NewPostRepository creates a post index holding posts, which must be newest first
func NewPostRepository(posts ...domain.Post) domain.PostRepository {
	return &postRepository{posts: append([]domain.Post(nil), posts...)}
}

// List retrieves all indexed posts, newest first
func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Post{}, r.posts...), nil
}

// Publish puts post first, drops older posts with the same link and trims to limit
func (r *postRepository) Publish(ctx context.Context, post domain.Post, limit int) error {
	if limit <= 0 {
		limit = domain.MaxPosts
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	posts := make([]domain.Post, 0, len(r.posts)+1)
	posts = append(posts, post)
	for _, p := range r.posts {
		if p.Link != post.Link {
			posts = append(posts, p)
		}
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	r.posts = posts
	return nil
}
