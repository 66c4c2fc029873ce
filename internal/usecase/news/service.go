package news

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// HeadlinesPerFeed is how many items are taken from the top of each feed
const HeadlinesPerFeed = 2

// ErrAllFeedsFailed is returned by Refresh when no feed could be read
var ErrAllFeedsFailed = errors.New("all news feeds failed")

// Snapshot is the result of the last successful refresh
type Snapshot struct {
	Headlines []domain.Headline `json:"headlines"`
	UpdatedAt time.Time         `json:"updatedAt,omitzero"`
}

// NewsService keeps the latest headlines from the configured feeds
type NewsService struct {
	Source domain.HeadlineSource
	Feeds  []string
	Logger logrus.FieldLogger

	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

// NewNewsService creates a new NewsService instance
func NewNewsService(source domain.HeadlineSource, feeds []string, logger logrus.FieldLogger) *NewsService {
	return &NewsService{
		Source:   source,
		Feeds:    feeds,
		Logger:   logger,
		snapshot: Snapshot{Headlines: []domain.Headline{}},
		now:      time.Now,
	}
}

// Refresh reads every feed and replaces the snapshot with their top items, in
// feed order. Failing feeds are skipped. If every feed fails the previous
// snapshot is kept and ErrAllFeedsFailed is returned.
func (s *NewsService) Refresh(ctx context.Context) (int, error) {
	if len(s.Feeds) == 0 {
		return 0, nil
	}

	headlines := []domain.Headline{}
	failed := 0
	for _, feed := range s.Feeds {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		items, err := s.Source.Headlines(ctx, feed, HeadlinesPerFeed)
		if err != nil {
			s.Logger.WithError(err).WithField("feed", feed).Warn("failed to read news feed")
			failed++
			continue
		}
		if len(items) > HeadlinesPerFeed {
			items = items[:HeadlinesPerFeed]
		}
		headlines = append(headlines, items...)
	}

	if failed == len(s.Feeds) {
		return 0, ErrAllFeedsFailed
	}

	s.mu.Lock()
	s.snapshot = Snapshot{Headlines: headlines, UpdatedAt: s.now().UTC()}
	s.mu.Unlock()

	s.Logger.WithFields(logrus.Fields{
		"feeds":     len(s.Feeds),
		"failed":    failed,
		"headlines": len(headlines),
	}).Info("news refreshed")

	return len(headlines), nil
}

// Latest returns a copy of the last snapshot
func (s *NewsService) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Headlines: append([]domain.Headline{}, s.snapshot.Headlines...),
		UpdatedAt: s.snapshot.UpdatedAt,
	}
}
