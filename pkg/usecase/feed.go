package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

const detailConditionNotMet = "feed condition not met"

// Credentials are the plugin-level API keys shared by every feed
type Credentials struct {
	PublicAPIKey  types.APIKey
	PrivateAPIKey types.APIKey
}

// FeedProcessor resolves a raw submission through its stored feed and hands
// the result to the forwarder
type FeedProcessor struct {
	repo        interfaces.FeedRepository
	forwarder   *Forwarder
	credentials Credentials
}

// NewFeedProcessor creates a new FeedProcessor
func NewFeedProcessor(repo interfaces.FeedRepository, forwarder *Forwarder, credentials Credentials) *FeedProcessor {
	return &FeedProcessor{
		repo:        repo,
		forwarder:   forwarder,
		credentials: credentials,
	}
}

// Process forwards one submission for its feed. Errors are only returned
// when the feed cannot be used; outbound failures are reported in the
// results.
func (u *FeedProcessor) Process(ctx context.Context, sub *model.Submission) (model.ForwardResults, error) {
	feed, err := u.repo.GetFeed(ctx, sub.FeedID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get feed", goerr.V("feed_id", sub.FeedID))
	}
	if feed.Disabled {
		return nil, goerr.Wrap(model.ErrFeedDisabled, "feed cannot be processed", goerr.V("feed_id", sub.FeedID))
	}

	logger := ctxlog.From(ctx).With("feed_id", feed.ID)
	ctx = ctxlog.With(ctx, logger)

	if feed.Condition != nil && !feed.Condition.Match(sub) {
		logger.Info("Feed condition not met, skipping submission")
		return model.ForwardResults{
			model.Skipped(model.TargetEvent, detailConditionNotMet),
			model.Skipped(model.TargetSubscription, detailConditionNotMet),
		}, nil
	}

	return u.forwarder.Forward(ctx, &ForwardRequest{
		Record: feed.Resolve(sub),
		Destination: model.DestinationConfig{
			PublicAPIKey:  u.credentials.PublicAPIKey,
			PrivateAPIKey: u.credentials.PrivateAPIKey,
			ListID:        feed.ListID,
		},
		Form:      feed.FormContext(sub),
		EventName: feed.EventName,
	}), nil
}

// ListFeeds returns every stored feed
func (u *FeedProcessor) ListFeeds(ctx context.Context) ([]*model.Feed, error) {
	feeds, err := u.repo.ListFeeds(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feeds")
	}
	return feeds, nil
}

// SaveFeed validates and stores a feed, replacing any feed with the same ID
func (u *FeedProcessor) SaveFeed(ctx context.Context, feed *model.Feed) error {
	return saveFeed(ctx, u.repo, feed)
}

// DeleteFeed removes a stored feed
func (u *FeedProcessor) DeleteFeed(ctx context.Context, id types.FeedID) error {
	if err := u.repo.DeleteFeed(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete feed", goerr.V("feed_id", id))
	}

	ctxlog.From(ctx).Info("Feed deleted", "feed_id", id)
	return nil
}

// ImportFeeds stores every feed of a feeds file. The whole file is validated
// before the first write.
func ImportFeeds(ctx context.Context, repo interfaces.FeedRepository, cfg *model.FeedsConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, goerr.Wrap(err, "invalid feeds", goerr.T(model.ErrTagValidation))
	}

	for i := range cfg.Feeds {
		if err := saveFeed(ctx, repo, &cfg.Feeds[i]); err != nil {
			return i, err
		}
	}

	return len(cfg.Feeds), nil
}

func saveFeed(ctx context.Context, repo interfaces.FeedRepository, feed *model.Feed) error {
	if feed == nil {
		return goerr.New("feed is required", goerr.T(model.ErrTagValidation))
	}
	if err := feed.Validate(); err != nil {
		return goerr.Wrap(err, "invalid feed",
			goerr.V("feed_id", feed.ID),
			goerr.T(model.ErrTagValidation))
	}

	if err := repo.PutFeed(ctx, feed); err != nil {
		return goerr.Wrap(err, "failed to save feed", goerr.V("feed_id", feed.ID))
	}

	ctxlog.From(ctx).Info("Feed saved", "feed_id", feed.ID, "list_id", feed.ListID)
	return nil
}

// IsFeedUnavailable reports whether err means the feed is unknown or
// disabled rather than a storage failure
func IsFeedUnavailable(err error) bool {
	return errors.Is(err, model.ErrFeedNotFound) || errors.Is(err, model.ErrFeedDisabled)
}
