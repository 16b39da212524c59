package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
	"github.com/ochairo/casebot/internal/external-adapters/slack"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Slack bot over Socket Mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, flags)
		},
	}
}

func runServe(ctx context.Context, flags *rootFlags) error {
	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Slack.BotToken == "" || a.cfg.Slack.AppToken == "" {
		return fmt.Errorf("configuration error: SLACK_BOT_TOKEN and SLACK_APP_TOKEN are required")
	}

	router := slack.NewRouter()
	router.OnMessage(func(ctx context.Context, msg orchestrators.IncomingMessage, reply orchestrators.ReplySink) error {
		_, err := a.orchestrator.HandleMessage(ctx, msg, reply)
		return err
	})
	router.OnAction(orchestrators.ActionRunTest, a.orchestrator.HandleAction)
	router.OnAction(orchestrators.ActionCancel, a.orchestrator.HandleAction)

	web := slack.NewWebClient(slack.WebClientConfig{
		APIURL:   a.cfg.Slack.APIURL,
		BotToken: a.cfg.Slack.BotToken,
		AppToken: a.cfg.Slack.AppToken,
	})

	a.logger.Info("starting slack bot")
	return slack.NewSocketModeClient(web, router, a.logger.Named("slack")).Run(ctx)
}
