package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"grabbot/internal/daemon"
	"grabbot/internal/logging"
	"grabbot/internal/preflight"
	"grabbot/internal/telegram"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and serve until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				LogDir:  cfg.Paths.LogDir,
				AppName: "grabbot",
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if !skipPreflight {
				results := preflight.RunAll(signalCtx, cfg)
				for _, result := range results {
					if !result.Passed {
						fmt.Fprintln(os.Stderr, renderStatusLine(result.Name, statusError, result.Detail, shouldColorize(os.Stderr)))
					}
				}
				if !preflight.Ready(results) {
					return fmt.Errorf("preflight checks failed; run `grabbot status` for details")
				}
			}

			api, err := telegram.Connect(cfg.Telegram)
			if err != nil {
				return err
			}
			logger.Info("bot authorized", logging.String("username", api.Self.UserName))

			d, err := daemon.New(cfg, api, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			logger.Info("shutting down")
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start even when preflight checks fail")
	return cmd
}
