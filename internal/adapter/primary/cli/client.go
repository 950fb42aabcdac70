package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"volpanel/internal/adapter/primary/tui"
	"volpanel/internal/adapter/secondary/discovery"
	"volpanel/internal/bridge"
	"volpanel/internal/core"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

func newPanelCmd() *cobra.Command {
	var (
		follow   bool
		discover bool
		logFile  string
	)
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Interactive terminal volume panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alternate screen owns the terminal; send logs to a file.
			f, err := tea.LogToFile(logFile, "volpanel ")
			if err != nil {
				return err
			}
			defer f.Close()

			deps, err := newClientDeps(cmd, discover)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := tea.NewProgram(tui.NewModel(ctx, deps.client), tea.WithAltScreen(), tea.WithContext(ctx))
			if follow {
				go func() {
					err := deps.invoker.Subscribe(ctx, func(s domain.AudioState) {
						p.Send(tui.Observed(s))
					})
					if err != nil {
						logging.Warnf("event stream ended: %v", err)
					}
				}()
			}

			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "render changes pushed by the backend")
	cmd.Flags().BoolVar(&discover, "discover", false, "use the first backend found with mDNS")
	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "volpanel-panel.log"), "log file while the panel is open")
	return cmd
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the backend state as JSON (default state if unreachable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := newClientDeps(cmd, false)
			if err != nil {
				return err
			}
			state := bridge.LoadOrDefault(cmd.Context(), deps.client)
			out, _ := json.MarshalIndent(map[string]any{
				"volumePercent": state.VolumePercent,
				"isMuted":       state.IsMuted,
			}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newVolumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "volume PERCENT",
		Short: "Set the output volume (0-100) and show the panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("volume must be an integer: %q", args[0])
			}
			if err := domain.ValidateVolume(percent); err != nil {
				return err
			}
			return dispatchAndPrint(cmd, core.SliderChange(percent))
		},
	}
}

func newMuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Toggle mute and show the panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndPrint(cmd, core.MuteClick)
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-read the backend and show the panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndPrint(cmd)
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List bridge backends advertised on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			found := 0
			err := discovery.Browse(ctx, func(b discovery.Backend) {
				found++
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.URL)
			})
			if err != nil {
				return err
			}
			if found == 0 {
				return discovery.ErrNotFound
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to browse")
	return cmd
}
