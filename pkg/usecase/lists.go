package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// ListDirectory looks up the lists a feed can target
type ListDirectory struct {
	client interfaces.KlaviyoClient
}

// NewListDirectory creates a new ListDirectory
func NewListDirectory(client interfaces.KlaviyoClient) *ListDirectory {
	return &ListDirectory{client: client}
}

// FetchLists returns the account's lists. Without a private key it returns
// the single blank choice and makes no call. Upstream failures are returned
// as errors so the caller decides on a fallback.
func (u *ListDirectory) FetchLists(ctx context.Context, privateKey types.APIKey) ([]model.ListChoice, error) {
	if !privateKey.IsSet() {
		return model.DefaultListChoices(), nil
	}

	lists, err := u.client.Lists(ctx, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch Klaviyo lists")
	}

	ctxlog.From(ctx).Debug("Fetched Klaviyo lists", "count", len(lists))
	return lists, nil
}
