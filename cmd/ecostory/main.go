package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecostory/internal/app"
	"ecostory/internal/config"
	"ecostory/internal/logger"
)

var (
	verbose bool

	cfg *config.Config
	lg  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ecostory",
	Short: "Eco Story Adventure: water-saving stories and comics for kids",
	Long: `ecostory asks a text model for a children's water-saving story, splits it
into numbered comic panels and draws one picture per panel.

Configuration comes from the environment (and an optional .env file).
OPENAI_API_KEY is required.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		lc := cfg.Logger()
		if verbose {
			lc.Level = "debug"
		}
		if lc.OutputPath == "" {
			lc.OutputPath = "stderr"
		}
		lg, err = logger.New(lc)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if lg != nil {
			_ = lg.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			return a.Serve(ctx)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(generateCmd, serveCmd)
}

// withApp builds the application, runs fn and flushes traces afterwards.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(closeCtx)
	}()
	return fn(ctx, a)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
