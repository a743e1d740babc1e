package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pevans/judgearchive/config"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

var (
	state = &app{}

	rootFlag    string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "judgearchive",
	Short: "Maintain an archive of online judge solutions",
	Long: `judgearchive creates per-problem workspaces for online judge problems
and regenerates the README index that links every archived problem to its
statement and solution.

Configuration is read from ~/.judgearchive/config.yaml, a .env file in the
working directory, and JUDGEARCHIVE_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if rootFlag != "" {
			cfg.Root = rootFlag
		}
		if verboseFlag {
			cfg.LogLevel = "debug"
		}

		state.cfg = cfg
		state.logger = newLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Archive root directory (JUDGEARCHIVE_ROOT)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show debug logging")
}

// newLogger returns a text logger on stderr at the named level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
