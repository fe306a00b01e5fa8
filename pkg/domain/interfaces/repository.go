package interfaces

import (
	"context"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// FeedRepository defines persistence of per-feed settings
type FeedRepository interface {
	GetFeed(ctx context.Context, id types.FeedID) (*model.Feed, error)
	ListFeeds(ctx context.Context) ([]*model.Feed, error)
	PutFeed(ctx context.Context, feed *model.Feed) error
	DeleteFeed(ctx context.Context, id types.FeedID) error

	// Close closes the repository connection
	Close() error
}
