package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/freightops/carrierwatch/pkg/cli/config"
	httpctrl "github.com/freightops/carrierwatch/pkg/controller/http"
	slacksvc "github.com/freightops/carrierwatch/pkg/service/slack"
	"github.com/freightops/carrierwatch/pkg/usecase"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var slackCfg config.Slack
	var mcpCfg config.MCP

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":3000",
			Sources:     cli.EnvVars("CARRIERWATCH_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, mcpCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := slackCfg.Validate(); err != nil {
				return err
			}

			_, refresher, apiClient, err := mcpCfg.Configure()
			if err != nil {
				return err
			}

			logging.Default().Info("configuration loaded", "slack", slackCfg, "mcp", mcpCfg)

			responder := slacksvc.NewResponder()
			notifier := slacksvc.NewOpsNotifier(slackCfg.WebhookURL())

			uc := usecase.New(apiClient, refresher, responder,
				usecase.WithNotifier(notifier),
			)

			commandHandler := httpctrl.NewSlackCommandHandler(slackCfg.Command(), uc.Preview)
			handler := httpctrl.New(
				httpctrl.WithSlackCommand(commandHandler, slackCfg.SigningSecret()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("starting HTTP server", "addr", addr, "command", slackCfg.Command())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("server shutdown completed")
				return nil
			}
		},
	}
}
