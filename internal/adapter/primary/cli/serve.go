package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"volpanel/internal/adapter/primary/web"
	"volpanel/internal/adapter/secondary/discovery"
	"volpanel/internal/adapter/secondary/volume"
	"volpanel/internal/bridge"
	"volpanel/internal/logging"
	"volpanel/internal/usecase"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		controller string
		interval   time.Duration
		advertise  bool
		name       string
		noObserver bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge backend (HTTP API, event stream and Web panel)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
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
			if err := settings.Validate(); err != nil {
				return err
			}

			ctrl, err := volume.NewController(settings.Controller)
			if err != nil {
				return err
			}
			uc, err := usecase.NewAudioUseCase(ctrl, settings.ObserveInterval)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if !noObserver {
				uc.Start(ctx)
			}

			if advertise {
				port, err := portOf(settings.Addr)
				if err != nil {
					return err
				}
				adv, err := discovery.Advertise(name, port, dialectNames())
				if err != nil {
					return err
				}
				defer adv.Shutdown()
			}

			srv := web.NewServer(uc, settings.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Volume panel backend running at http://%s (controller=%s)\n", settings.Addr, settings.Controller)
			logging.Infof("backend listening on %s", settings.Addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	host, _ := os.Hostname()
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP bind address host:port")
	cmd.Flags().StringVar(&controller, "controller", "", "audio controller: applescript or memory")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "change observer poll interval")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "advertise the backend with mDNS")
	cmd.Flags().StringVar(&name, "name", "volpanel@"+host, "mDNS instance name")
	cmd.Flags().BoolVar(&noObserver, "no-observer", false, "do not poll for external volume changes")
	return cmd
}

func portOf(addr string) (int, error) {
	_, portText, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("parse addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("addr %q needs a numeric port to advertise", addr)
	}
	return port, nil
}

func dialectNames() []string {
	var names []string
	for _, d := range bridge.Dialects() {
		names = append(names, d.Name)
	}
	return names
}
