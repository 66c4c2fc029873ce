package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// DefaultSummary is stored for posts published without one
const DefaultSummary = "요약 내용이 없습니다."

var placeholders = map[domain.Locale]string{
	domain.LocaleEnglish: "No posts have been published yet.",
	domain.LocaleKorean:  "아직 게시된 포스트가 없습니다.",
}

// Listing is the blog index as shown to a reader. When there is nothing to show,
// Empty is set and Placeholder holds the localized message.
type Listing struct {
	Posts       []domain.Post `json:"posts"`
	Empty       bool          `json:"empty"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// BlogService maintains the post index
type BlogService struct {
	PostRepo domain.PostRepository
	Source   domain.PostSource
	Logger   logrus.FieldLogger

	now func() time.Time
}

// NewBlogService creates a new BlogService instance. source may be nil, in which
// case Refresh does nothing.
func NewBlogService(postRepo domain.PostRepository, source domain.PostSource, logger logrus.FieldLogger) *BlogService {
	return &BlogService{
		PostRepo: postRepo,
		Source:   source,
		Logger:   logger,
		now:      time.Now,
	}
}

// Placeholder returns the empty-index message for locale, falling back to English
func Placeholder(locale domain.Locale) string {
	if msg, ok := placeholders[locale]; ok {
		return msg
	}
	return placeholders[domain.LocaleEnglish]
}

// List returns the posts, newest first. It never fails: a store error is
// logged and shown as an empty listing.
func (s *BlogService) List(ctx context.Context, locale domain.Locale) Listing {
	posts, err := s.PostRepo.List(ctx)
	if err != nil {
		s.Logger.WithError(err).Warn("failed to load posts")
		posts = nil
	}

	if len(posts) == 0 {
		return Listing{
			Posts:       []domain.Post{},
			Empty:       true,
			Placeholder: Placeholder(locale),
		}
	}
	return Listing{Posts: posts}
}

// Publish validates the post, fills in the date and summary if missing, and
// puts it at the front of the index
func (s *BlogService) Publish(ctx context.Context, post domain.Post) (domain.Post, error) {
	post, err := s.publish(ctx, post)
	if err != nil {
		return domain.Post{}, err
	}

	s.Logger.WithFields(logrus.Fields{
		"title": post.Title,
		"link":  post.Link,
	}).Info("post published")

	return post, nil
}

func (s *BlogService) publish(ctx context.Context, post domain.Post) (domain.Post, error) {
	post.Normalize()
	if err := post.Validate(); err != nil {
		return domain.Post{}, err
	}

	if post.Date == "" {
		post.Date = s.now().UTC().Format(domain.PostDateLayout)
	}
	if post.Summary == "" {
		post.Summary = DefaultSummary
	}

	if err := s.PostRepo.Publish(ctx, post, domain.MaxPosts); err != nil {
		return domain.Post{}, fmt.Errorf("failed to publish post: %w", err)
	}
	return post, nil
}

// Refresh pulls the post index from the source and publishes its records oldest
// first, so the source's newest post ends up first. Invalid records are skipped.
// It returns how many posts were published.
func (s *BlogService) Refresh(ctx context.Context) (int, error) {
	if s.Source == nil {
		return 0, nil
	}

	posts, err := s.Source.FetchPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch posts: %w", err)
	}

	published := 0
	for i := len(posts) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		if _, err := s.publish(ctx, posts[i]); err != nil {
			s.Logger.WithError(err).WithField("link", posts[i].Link).Warn("skipping post")
			continue
		}
		published++
	}

	s.Logger.WithFields(logrus.Fields{
		"fetched":   len(posts),
		"published": published,
	}).Info("post index refreshed")

	return published, nil
}
