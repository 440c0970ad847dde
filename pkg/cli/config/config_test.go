package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/freightops/carrierwatch/pkg/cli/config"
)

func runFlags(t *testing.T, flags []cli.Flag, args []string, action func() error) error {
	t.Helper()

	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return action()
		},
	}
	return cmd.Run(context.Background(), append([]string{"test"}, args...))
}

func TestSlackValidate(t *testing.T) {
	var cfg config.Slack
	err := runFlags(t, cfg.Flags(), []string{
		"--slack-signing-secret", "shh",
		"--slack-webhook-url", "https://hooks.slack.example.com/services/T0/B0/x",
	}, cfg.Validate)
	gt.NoError(t, err)

	// Default command
	gt.Value(t, cfg.Command()).Equal("/mcp-preview")
	gt.Value(t, cfg.SigningSecret()).Equal("shh")
}

func TestSlackValidate_Missing(t *testing.T) {
	var cfg config.Slack
	err := runFlags(t, cfg.Flags(), nil, cfg.Validate)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, config.ErrMissingConfig)).True()
}

func TestMCPValidate(t *testing.T) {
	var cfg config.MCP
	err := runFlags(t, cfg.Flags(), []string{
		"--bearer-token", "bearer",
		"--refresh-token", "refresh",
		"--token-endpoint-url", "https://auth.example.com/token",
	}, cfg.Validate)
	gt.NoError(t, err)
}

func TestMCPValidate_Missing(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "all missing",
			args: nil,
		},
		{
			name: "no token endpoint",
			args: []string{"--bearer-token", "bearer", "--refresh-token", "refresh"},
		},
		{
			name: "no refresh token",
			args: []string{"--bearer-token", "bearer", "--token-endpoint-url", "https://auth.example.com/token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.MCP
			err := runFlags(t, cfg.Flags(), tt.args, cfg.Validate)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, config.ErrMissingConfig)).True()
		})
	}
}

func TestMCPConfigure(t *testing.T) {
	var cfg config.MCP
	err := runFlags(t, cfg.Flags(), []string{
		"--bearer-token", "bearer",
		"--refresh-token", "refresh",
		"--token-endpoint-url", "https://auth.example.com/token",
	}, func() error {
		store, refresher, client, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, store.BearerToken()).Equal("bearer")
		gt.Value(t, refresher).NotEqual(nil)
		gt.Value(t, client).NotEqual(nil)
		return nil
	})
	gt.NoError(t, err)
}

func TestLoggerConfigure(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
		},
		{
			name: "json format",
			args: []string{"--log-level", "debug", "--log-format", "json"},
		},
		{
			name:    "invalid level",
			args:    []string{"--log-level", "verbose"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			args:    []string{"--log-format", "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Logger
			err := runFlags(t, cfg.Flags(), tt.args, func() error {
				closer, err := cfg.Configure()
				if err != nil {
					return err
				}
				closer()
				return nil
			})
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
