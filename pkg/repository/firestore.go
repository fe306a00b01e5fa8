package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	feedsCollection = "feeds"
)

// Firestore implements FeedRepository with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.FeedRepository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on bad project or missing permissions
	_, err = client.Collection(feedsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// GetFeed retrieves a feed by ID
func (f *Firestore) GetFeed(ctx context.Context, id types.FeedID) (*model.Feed, error) {
	if id == "" {
		return nil, goerr.New("feed ID is empty")
	}

	doc, err := f.client.Collection(feedsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrFeedNotFound, "failed to get feed", goerr.V("feed_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get feed from firestore", goerr.V("feed_id", id))
	}

	var feed model.Feed
	if err := doc.DataTo(&feed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode feed", goerr.V("feed_id", id))
	}

	return &feed, nil
}

// ListFeeds lists all feeds ordered by ID
func (f *Firestore) ListFeeds(ctx context.Context) ([]*model.Feed, error) {
	iter := f.client.Collection(feedsCollection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var feeds []*model.Feed
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feeds")
		}

		var feed model.Feed
		if err := doc.DataTo(&feed); err != nil {
			return nil, goerr.Wrap(err, "failed to decode feed", goerr.V("doc_id", doc.Ref.ID))
		}
		feeds = append(feeds, &feed)
	}

	return feeds, nil
}

// PutFeed saves a feed to Firestore
func (f *Firestore) PutFeed(ctx context.Context, feed *model.Feed) error {
	if feed == nil {
		return goerr.New("feed is nil")
	}
	if err := feed.Validate(); err != nil {
		return goerr.Wrap(err, "invalid feed")
	}

	_, err := f.client.Collection(feedsCollection).Doc(feed.ID.String()).Set(ctx, feed)
	if err != nil {
		return goerr.Wrap(err, "failed to save feed to firestore", goerr.V("feed_id", feed.ID))
	}

	return nil
}

// DeleteFeed deletes a feed from Firestore
func (f *Firestore) DeleteFeed(ctx context.Context, id types.FeedID) error {
	if id == "" {
		return goerr.New("feed ID is empty")
	}

	ref := f.client.Collection(feedsCollection).Doc(id.String())
	_, err := ref.Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrFeedNotFound, "failed to delete feed", goerr.V("feed_id", id))
		}
		return goerr.Wrap(err, "failed to delete feed from firestore", goerr.V("feed_id", id))
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
