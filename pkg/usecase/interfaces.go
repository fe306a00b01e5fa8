package usecase

import (
	"context"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// SubmissionForwarder defines the interface for forwarding a resolved submission
type SubmissionForwarder interface {
	// Forward issues the event and subscription calls and reports both outcomes
	Forward(ctx context.Context, req *ForwardRequest) model.ForwardResults
}

// ListDirectoryFetcher defines the interface for the list lookup
type ListDirectoryFetcher interface {
	// FetchLists returns list choices for the private key's account
	FetchLists(ctx context.Context, privateKey types.APIKey) ([]model.ListChoice, error)
}

// FeedSubmissionProcessor defines the interface for feed-driven forwarding
type FeedSubmissionProcessor interface {
	// Process forwards a raw submission through its stored feed
	Process(ctx context.Context, sub *model.Submission) (model.ForwardResults, error)

	// ListFeeds returns every stored feed
	ListFeeds(ctx context.Context) ([]*model.Feed, error)

	// SaveFeed validates and stores a feed
	SaveFeed(ctx context.Context, feed *model.Feed) error

	// DeleteFeed removes a stored feed
	DeleteFeed(ctx context.Context, id types.FeedID) error
}

var (
	_ SubmissionForwarder     = (*Forwarder)(nil)
	_ ListDirectoryFetcher    = (*ListDirectory)(nil)
	_ FeedSubmissionProcessor = (*FeedProcessor)(nil)
)
