package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/cli/config"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/repository"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFeeds() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "Manage stored feed settings",
		Commands: []*cli.Command{
			cmdFeedsImport(),
		},
	}
}

func cmdFeedsImport() *cli.Command {
	var (
		feedsCfg     config.Feeds
		firestoreCfg config.Firestore
		dryRun       bool
	)

	flags := joinFlags(
		feedsCfg.Flags(),
		firestoreCfg.Flags(),
		[]cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Validate the feeds file and print the feeds without writing to Firestore",
				Destination: &dryRun,
			},
		},
	)

	return &cli.Command{
		Name:  "import",
		Usage: "Validate the feeds YAML file and store every feed in Firestore",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			cfg, err := config.LoadFeedsFromFile(feedsCfg.Path)
			if err != nil {
				return err
			}

			var repo interfaces.FeedRepository
			if dryRun {
				repo = repository.NewMemory()
			} else {
				if !firestoreCfg.IsConfigured() {
					return goerr.New("firestore project is required to import feeds, use --dry-run to only validate")
				}
				repo, err = firestoreCfg.Configure(ctx)
				if err != nil {
					return err
				}
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Warn("Failed to close feed repository", "error", err)
				}
			}()

			count, err := usecase.ImportFeeds(ctx, repo, cfg)
			if err != nil {
				return err
			}

			feeds, err := repo.ListFeeds(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list imported feeds")
			}

			logger.Info("Feeds imported", "count", count, "dry_run", dryRun, "firestore", firestoreCfg)
			return printYAML(os.Stdout, map[string]any{"feeds": feeds})
		},
	}
}
