package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"volpanel/internal/adapter/secondary/discovery"
	"volpanel/internal/adapter/secondary/invoker"
	"volpanel/internal/adapter/secondary/repository"
	"volpanel/internal/bridge"
	"volpanel/internal/core"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

func defaultConfigPath() string {
	return repository.DefaultPath()
}

// loadSettings reads the settings file and applies persistent flag overrides.
func loadSettings(cmd *cobra.Command) (domain.Settings, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := repo.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	if cmd.Flags().Changed("backend") {
		settings.BackendURL = backendFlag
	}
	if cmd.Flags().Changed("dialect") {
		settings.Dialect = dialectFlag
	}
	return settings, nil
}

// clientDeps are the pieces every client command needs.
type clientDeps struct {
	settings domain.Settings
	invoker  *invoker.HTTPInvoker
	client   *bridge.Client
}

func newClientDeps(cmd *cobra.Command, discover bool) (*clientDeps, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	if discover {
		ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
		backend, err := discovery.First(ctx)
		cancel()
		if err != nil {
			return nil, err
		}
		logging.Infof("using discovered backend %s at %s", backend.Name, backend.URL)
		settings.BackendURL = backend.URL
	}

	dialect, err := bridge.DialectByName(settings.Dialect)
	if err != nil {
		return nil, err
	}
	inv, err := invoker.NewHTTPInvoker(settings.BackendURL, settings.Timeout)
	if err != nil {
		return nil, err
	}
	return &clientDeps{
		settings: settings,
		invoker:  inv,
		client:   bridge.NewClient(inv, dialect),
	}, nil
}

// dispatchAndPrint runs one panel event against the backend and prints the
// resulting panel. Like the interactive panel it never fails on backend errors.
func dispatchAndPrint(cmd *cobra.Command, events ...core.Event) error {
	deps, err := newClientDeps(cmd, false)
	if err != nil {
		return err
	}
	panel, err := core.NewPanel(deps.client)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	view := panel.Load(ctx)
	for _, e := range events {
		if view, err = panel.Dispatch(ctx, e); err != nil {
			return err
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), formatPanel(view))
	return nil
}
