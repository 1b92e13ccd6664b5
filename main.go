package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nubank/chat-assistant/internal/chat"
	"github.com/nubank/chat-assistant/internal/config"
	"github.com/nubank/chat-assistant/internal/logger"
	"github.com/nubank/chat-assistant/internal/provider"
	"github.com/nubank/chat-assistant/internal/registry"
	"github.com/nubank/chat-assistant/internal/server"
	"github.com/nubank/chat-assistant/internal/store"
	"github.com/nubank/chat-assistant/internal/upload"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "chat-assistant",
	Short: "Web-based chat assistant API",
	Long: `chat-assistant forwards chat messages to a selectable text-generation
backend, keeps each user's transcript in memory and stores uploaded files
on local disk.`,
	Version:      version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (default ./configs/config.yaml or ./config.yaml if present)")
}

func main() {
	_ = godotenv.Load() // .env is optional

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)

	backends, err := registry.Build(cfg.Backends.Endpoints, cfg.Backends.File)
	if err != nil {
		return fmt.Errorf("failed to build backend registry: %w", err)
	}

	var gen provider.Generator
	if cfg.Backends.Mock {
		gen = provider.Mock{Backends: backends}
	} else {
		gen = provider.NewHTTPClient(backends, cfg.Backends.Timeout, lg)
	}
	lg.Info("backends ready",
		"count", backends.Len(),
		"models", backends.Models(),
		"default_model", cfg.Backends.DefaultModel,
		"generator", gen.Name(),
	)

	if _, ok := backends.Lookup(cfg.Backends.DefaultModel); !ok {
		lg.Warn("default model is not registered; turns without model_choice will fail",
			"default_model", cfg.Backends.DefaultModel)
	}

	conversations := store.NewConversations()
	chatSvc := chat.NewService(conversations, gen, cfg.Backends.DefaultModel, lg)
	uploads := upload.NewStore(cfg.Upload.Dir)

	srv := server.New(server.Options{
		Chat:       chatSvc,
		Uploads:    uploads,
		Backends:   backends,
		Generator:  gen.Name(),
		CORSOrigin: cfg.Server.CORSOrigin,
		Logger:     lg,
	})

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("server listening", "address", httpSrv.Addr, "mode", cfg.Server.Mode, "version", version, "upload_dir", uploads.Dir())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server run failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		lg.Info("server stopped gracefully", "users", conversations.Users())
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}
