package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/repository"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Feeds holds feed settings configuration
type Feeds struct {
	Path string
}

// Flags returns CLI flags for Feeds configuration
func (f *Feeds) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "feeds",
			Usage:       "Path to the feeds YAML file",
			Category:    "Feeds",
			Sources:     cli.EnvVars("KLAVIYOFEED_FEEDS"),
			Destination: &f.Path,
		},
	}
}

// Configure returns a feed repository. Firestore is used when configured,
// otherwise feeds are loaded from the YAML file into memory.
func (f *Feeds) Configure(ctx context.Context, firestore *Firestore) (interfaces.FeedRepository, error) {
	logger := ctxlog.From(ctx)

	if firestore != nil && firestore.IsConfigured() {
		if f.Path != "" {
			logger.Warn("Both Firestore and a feeds file are configured, using Firestore", "path", f.Path)
		}
		return firestore.Configure(ctx)
	}

	if f.Path == "" {
		logger.Warn("No feeds configured, feed submissions will be rejected")
		return repository.NewMemory(), nil
	}

	cfg, err := LoadFeedsFromFile(f.Path)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded feeds", "path", f.Path, "count", len(cfg.Feeds))
	return repository.NewMemory(cfg.Feeds...), nil
}

// LogValue returns structured log value
func (f Feeds) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", f.Path),
	)
}

// LoadFeedsFromFile loads feed settings from a YAML file
func LoadFeedsFromFile(path string) (*model.FeedsConfig, error) {
	if path == "" {
		return nil, goerr.New("feeds file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "feeds file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read feeds file",
			goerr.V("path", path))
	}

	var config model.FeedsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse feeds file",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid feeds file",
			goerr.V("path", path))
	}

	return &config, nil
}
