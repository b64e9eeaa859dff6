// Command salesctl queries menu sales and the comment log from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"menusales/internal/cli"
	"menusales/internal/config"
	applog "menusales/internal/log"
)

var (
	outputPath string
	dbPath     string
	logLevel   string
)

func main() {
	cli.LoadEnvFile()

	rootCmd := &cobra.Command{
		Use:   "salesctl",
		Short: "Browse menu sales by category and keep sales comments",
		Long: `salesctl reads the configured sales source (DATA_BACKEND) and prints
item series, comparisons and charts. It also appends to and lists the
comment log in COMMENTS_DIR.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		categoriesCmd(),
		itemsCmd(),
		seriesCmd(),
		compareCmd(),
		chartCmd(),
		commentCmd(),
		importCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp loads configuration, builds the services and hands them to fn.
func withApp(fn func(ctx context.Context, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := cli.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd.Context(), app, args)
	}
}

func loadConfig() (*config.Config, *applog.Logger, error) {
	logger := cli.SetupLogger(logLevel).WithComponent(applog.ComponentCLI)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
