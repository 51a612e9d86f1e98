package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/config"
	"github.com/templui/tasbih/internal/logger"
)

func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tasbih",
		Short:         "Daily adhkar counter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(GoalsCmd())
	rootCmd.AddCommand(CountCmd())
	rootCmd.AddCommand(IncrementCmd())
	rootCmd.AddCommand(TodayCmd())
	rootCmd.AddCommand(ImportCmd())
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(BackupCmd())
	rootCmd.AddCommand(MigrateCmd())

	return rootCmd
}

// loadConfig reads configuration and sets up logging on stderr so command
// output on stdout stays clean. level is used when LOG_LEVEL is unset.
func loadConfig(level string) *config.Config {
	cfg := config.Load()
	if cfg.LogLevel != "" {
		level = cfg.LogLevel
	}

	logger.Init(logger.Options{
		Dev:       cfg.IsDevelopment(),
		Level:     level,
		SentryDSN: cfg.SentryDSN,
		Output:    os.Stderr,
	})
	return cfg
}

// withApp opens the store for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg := loadConfig("warn")
	ctx := cmd.Context()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
