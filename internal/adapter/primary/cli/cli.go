package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volpanel/internal/logging"
)

var (
	cfgPath     string
	verbosity   int
	backendFlag string
	dialectFlag string
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volpanel",
		Short:         "System output volume panel and bridge backend",
		Long:          "Terminal/Web volume panel that mirrors a bridge backend, plus the backend itself",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "settings file path")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "backend URL (overrides settings)")
	cmd.PersistentFlags().StringVar(&dialectFlag, "dialect", "", "wire dialect: state or command (overrides settings)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Each shell line builds a fresh root; only an explicit -v may
		// override the level chosen with "log".
		if cmd.Flags().Changed("verbose") {
			logging.SetVerbosity(verbosity)
		}
	}

	cmd.AddCommand(
		newServeCmd(),
		newPanelCmd(),
		newStateCmd(),
		newVolumeCmd(),
		newMuteCmd(),
		newRefreshCmd(),
		newDiscoverCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell running volpanel subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(cmd.OutOrStdout(), prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "volpanel> ", "shell prompt")
	return cmd
}

func runInteractiveShell(out io.Writer, prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "volpanel-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(out, "Interactive shell. 'help' for examples, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help":
			printShellHelp(out)
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(out, tokens[1:]); err != nil {
				fmt.Fprintf(out, "log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Fprintln(out, "Already in the shell. Enter another command or 'exit'.")
			continue
		}

		if err := executeArgs(out, tokens); err != nil {
			fmt.Fprintf(out, "command error: %v\n", err)
		}
	}
}

func executeArgs(out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var count int
	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, n, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		count = n
	case vcount > 0:
		count = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(count)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  state                          # print the backend state as JSON
  volume 40                      # set the volume and show the panel
  mute                           # toggle mute and show the panel
  refresh                        # re-read the backend and show the panel
  discover --timeout 3s          # list backends on the local network
  config get                     # show settings
  config set --dialect command   # update settings
  log -vv                        # more verbose logging
  log --show                     # show the current log level
  exit / quit                    # leave the shell`)
}
