package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// FeedsConfig represents the feeds file
type FeedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// Validate validates the feeds configuration
func (c *FeedsConfig) Validate() error {
	idMap := make(map[types.FeedID]bool)
	for i, feed := range c.Feeds {
		if err := feed.Validate(); err != nil {
			return goerr.Wrap(err, "invalid feed at index",
				goerr.V("index", i),
				goerr.V("id", feed.ID))
		}

		if idMap[feed.ID] {
			return goerr.New("duplicate feed ID",
				goerr.V("id", feed.ID))
		}
		idMap[feed.ID] = true
	}

	return nil
}

// FindFeedByID finds a feed by its ID
func (c *FeedsConfig) FindFeedByID(id types.FeedID) *Feed {
	for _, feed := range c.Feeds {
		if feed.ID == id {
			// Return a copy to prevent modification
			result := feed
			return &result
		}
	}
	return nil
}
