package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// postRepository implements domain.PostRepository
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new blog post repository
func NewPostRepository(db *DB) domain.PostRepository {
	return &postRepository{db: db}
}

// List retrieves all indexed posts, newest first
func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := `
		SELECT date, title, summary, link
		FROM blog_posts
		ORDER BY seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.Date, &p.Title, &p.Summary, &p.Link); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// Publish upserts the post as the newest one and trims the index to limit posts
// in a single database transaction
func (r *postRepository) Publish(ctx context.Context, post domain.Post, limit int) error {
	if limit <= 0 {
		limit = domain.MaxPosts
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// A republished link moves to the front
	upsertQuery := `
		INSERT INTO blog_posts (link, date, title, summary, seq)
		VALUES ($1, $2, $3, $4, nextval('blog_posts_seq'))
		ON CONFLICT (link) DO UPDATE SET
			date = EXCLUDED.date,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			seq = EXCLUDED.seq
	`

	if _, err := dbTx.ExecContext(ctx, upsertQuery, post.Link, post.Date, post.Title, post.Summary); err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	trimQuery := `
		DELETE FROM blog_posts
		WHERE link NOT IN (
			SELECT link FROM blog_posts ORDER BY seq DESC LIMIT $1
		)
	`

	if _, err := dbTx.ExecContext(ctx, trimQuery, limit); err != nil {
		return fmt.Errorf("failed to trim posts: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
