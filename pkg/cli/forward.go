package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/klaviyofeed/pkg/cli/config"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdForward() *cli.Command {
	var (
		klaviyoCfg config.Klaviyo
		slackCfg   config.Slack

		email     string
		firstName string
		lastName  string
		listID    string
		formTitle string
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Usage:       "Submitter email address",
				Destination: &email,
			},
			&cli.StringFlag{
				Name:        "first-name",
				Usage:       "Submitter first name",
				Destination: &firstName,
			},
			&cli.StringFlag{
				Name:        "last-name",
				Usage:       "Submitter last name",
				Destination: &lastName,
			},
			&cli.StringFlag{
				Name:        "list",
				Usage:       "Klaviyo list ID to subscribe to",
				Destination: &listID,
			},
			&cli.StringFlag{
				Name:        "form-title",
				Usage:       "Title of the form the submission came from",
				Destination: &formTitle,
			},
		},
		klaviyoCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "forward",
		Usage: "Forward a single submission and print the outcome",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := klaviyoCfg.Configure()
			if err != nil {
				return err
			}

			opts := klaviyoCfg.ForwarderOptions()
			if notifier := slackCfg.ConfigureOptional(ctxlog.From(ctx)); notifier != nil {
				opts = append(opts, usecase.WithFailureNotifier(notifier))
			}

			// Empty flags stay out of the record
			record := model.SubmissionRecord{}
			for name, value := range map[string]string{
				model.FieldEmail:     email,
				model.FieldFirstName: firstName,
				model.FieldLastName:  lastName,
			} {
				if value != "" {
					record[name] = value
				}
			}

			credentials := klaviyoCfg.Credentials()
			results := usecase.NewForwarder(client, opts...).Forward(ctx, &usecase.ForwardRequest{
				Record: record,
				Destination: model.DestinationConfig{
					PublicAPIKey:  credentials.PublicAPIKey,
					PrivateAPIKey: credentials.PrivateAPIKey,
					ListID:        types.ListID(listID),
				},
				Form: model.FormContext{Title: formTitle},
			})

			return printYAML(os.Stdout, map[string]any{"results": results})
		},
	}
}
