package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"volpanel/internal/adapter/secondary/repository"
	"volpanel/internal/bridge"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or update settings",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			display := map[string]any{
				"backendURL":             settings.BackendURL,
				"dialect":                settings.Dialect,
				"addr":                   settings.Addr,
				"controller":             settings.Controller,
				"observeIntervalSeconds": settings.ObserveInterval.Seconds(),
				"timeoutSeconds":         settings.Timeout.Seconds(),
			}
			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		addr       string
		controller string
		interval   time.Duration
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("backend") {
				settings.BackendURL = backendFlag
			}
			if cmd.Flags().Changed("dialect") {
				if _, err := bridge.DialectByName(dialectFlag); err != nil {
					return err
				}
				settings.Dialect = dialectFlag
			}
			if cmd.Flags().Changed("addr") {
				settings.Addr = addr
			}
			if cmd.Flags().Changed("controller") {
				settings.Controller = controller
			}
			if cmd.Flags().Changed("interval") {
				settings.ObserveInterval = interval
			}
			if cmd.Flags().Changed("timeout") {
				settings.Timeout = timeout
			}

			if err := settings.Validate(); err != nil {
				return err
			}
			if err := repo.Save(settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved: backend=%s dialect=%s addr=%s controller=%s interval=%s timeout=%s\n",
				settings.BackendURL, settings.Dialect, settings.Addr, settings.Controller, settings.ObserveInterval, settings.Timeout)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "serve bind address")
	cmd.Flags().StringVar(&controller, "controller", "", "audio controller: applescript or memory")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "observer poll interval, e.g. 500ms")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-call timeout")
	return cmd
}
