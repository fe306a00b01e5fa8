package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/cli/config"
	controller "github.com/secmon-lab/klaviyofeed/pkg/controller/http"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		klaviyoCfg   config.Klaviyo
		feedsCfg     config.Feeds
		firestoreCfg config.Firestore
		slackCfg     config.Slack
	)

	flags := joinFlags(
		serverCfg.Flags(),
		klaviyoCfg.Flags(),
		feedsCfg.Flags(),
		firestoreCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting klaviyofeed server",
				slog.Any("server", serverCfg),
				slog.Any("klaviyo", klaviyoCfg),
				slog.Any("feeds", feedsCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := klaviyoCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := feedsCfg.Configure(ctx, &firestoreCfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			forwarderOpts := klaviyoCfg.ForwarderOptions()
			if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
				forwarderOpts = append(forwarderOpts, usecase.WithFailureNotifier(notifier))
			}

			credentials := klaviyoCfg.Credentials()
			forwarder := usecase.NewForwarder(client, forwarderOpts...)
			useCases := &controller.UseCases{
				Forwarder: forwarder,
				Lists:     usecase.NewListDirectory(client),
				Feeds:     usecase.NewFeedProcessor(repo, forwarder, credentials),
			}

			httpConfig := controller.NewConfig(serverCfg.Addr,
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
				controller.WithCredentials(credentials),
			)
			server, err := controller.NewServer(ctx, httpConfig, useCases)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
