package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/docsx/internal/api"
	"github.com/RichardoC/docsx/internal/config"
	"github.com/RichardoC/docsx/internal/db"
	"github.com/RichardoC/docsx/internal/export"
	"github.com/RichardoC/docsx/internal/llm"
	"github.com/RichardoC/docsx/internal/remote"
	"github.com/RichardoC/docsx/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	configFlag string
	listenFlag string
	debugFlag  bool

	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "docsx",
	Short: "Essay editor with a chat assistant",
	Long: `docsx serves a document editor API and a chat panel backed by an
OpenAI-compatible model. The same process also serves the generator
endpoints the editor calls, unless remote.base_url points elsewhere.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		if listenFlag != "" {
			cfg.Listen = listenFlag
		}
		return serve(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docsx %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "docsx.toml", "path to the TOML config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable development logging")
	serveCmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func newLogger() *zap.Logger {
	if debugFlag {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	logger := newLogger()
	defer logger.Sync()

	store, err := db.New(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.Database))
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	llmService, err := llm.New(
		cfg.LLM.BaseURL,
		cfg.LLM.Token,
		cfg.LLM.Model,
		llm.WithTimeout(cfg.LLM.Timeout.Duration),
		llm.WithMaxPromptTokens(cfg.LLM.MaxPromptTokens),
	)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}

	client := remote.New(cfg.RemoteURL(),
		remote.WithPaths(cfg.Remote.PromptPath, cfg.Remote.RephrasePath),
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Remote.Timeout.Duration}),
	)

	ws, err := workspace.Open(client, store, logger)
	if err != nil {
		logger.Fatal("failed to open workspace", zap.Error(err))
	}

	exportOpts := export.DefaultOptions()
	exportOpts.FontSize = cfg.Export.FontSize
	exportOpts.LineHeight = cfg.Export.FontSize * 1.15
	exportOpts.Margin = cfg.Export.Margin

	handler := api.NewHandler(ws, llmService, exportOpts, logger)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: handler.Routes(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.Listen),
			zap.String("generator", cfg.RemoteURL()),
			zap.String("model", cfg.LLM.Model))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
