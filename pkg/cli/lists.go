package cli

import (
	"context"
	"os"

	"github.com/secmon-lab/klaviyofeed/pkg/cli/config"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdLists() *cli.Command {
	var klaviyoCfg config.Klaviyo

	return &cli.Command{
		Name:  "lists",
		Usage: "Print the lists available to the private API key",
		Flags: klaviyoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := klaviyoCfg.Configure()
			if err != nil {
				return err
			}

			lists, err := usecase.NewListDirectory(client).FetchLists(ctx, klaviyoCfg.Credentials().PrivateAPIKey)
			if err != nil {
				return err
			}

			return printYAML(os.Stdout, map[string]any{"lists": lists})
		},
	}
}
