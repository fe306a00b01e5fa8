package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// Memory implements FeedRepository with in-memory storage
type Memory struct {
	mu    sync.RWMutex
	feeds map[types.FeedID]*model.Feed
}

// NewMemory creates a new memory repository, optionally seeded with feeds
func NewMemory(feeds ...model.Feed) interfaces.FeedRepository {
	m := &Memory{
		feeds: make(map[types.FeedID]*model.Feed, len(feeds)),
	}
	for i := range feeds {
		m.feeds[feeds[i].ID] = copyFeed(&feeds[i])
	}
	return m
}

// GetFeed retrieves a feed by ID
func (m *Memory) GetFeed(ctx context.Context, id types.FeedID) (*model.Feed, error) {
	if id == "" {
		return nil, goerr.New("feed ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	feed, exists := m.feeds[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrFeedNotFound, "failed to get feed", goerr.V("feed_id", id))
	}

	// Return a copy to prevent external modification
	return copyFeed(feed), nil
}

// ListFeeds lists all feeds ordered by ID
func (m *Memory) ListFeeds(ctx context.Context) ([]*model.Feed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	feeds := make([]*model.Feed, 0, len(m.feeds))
	for _, feed := range m.feeds {
		feeds = append(feeds, copyFeed(feed))
	}

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].ID < feeds[j].ID
	})

	return feeds, nil
}

// PutFeed saves a feed to memory
func (m *Memory) PutFeed(ctx context.Context, feed *model.Feed) error {
	if feed == nil {
		return goerr.New("feed is nil")
	}
	if err := feed.Validate(); err != nil {
		return goerr.Wrap(err, "invalid feed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.feeds[feed.ID] = copyFeed(feed)
	return nil
}

// DeleteFeed deletes a feed from memory
func (m *Memory) DeleteFeed(ctx context.Context, id types.FeedID) error {
	if id == "" {
		return goerr.New("feed ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.feeds[id]; !exists {
		return goerr.Wrap(model.ErrFeedNotFound, "failed to delete feed", goerr.V("feed_id", id))
	}

	delete(m.feeds, id)
	return nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}

// copyFeed deep-copies the map and pointer fields of a feed
func copyFeed(feed *model.Feed) *model.Feed {
	feedCopy := *feed
	if feed.FieldMap != nil {
		feedCopy.FieldMap = make(map[string]types.FieldID, len(feed.FieldMap))
		for k, v := range feed.FieldMap {
			feedCopy.FieldMap[k] = v
		}
	}
	if feed.Condition != nil {
		cond := *feed.Condition
		feedCopy.Condition = &cond
	}
	return &feedCopy
}
