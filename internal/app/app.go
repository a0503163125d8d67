// Package app wires configuration into the engine, the OpenAI clients and
// the web server. Both binaries start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ecostory/internal/comicpdf"
	"ecostory/internal/config"
	"ecostory/internal/game"
	"ecostory/internal/llm"
	"ecostory/internal/observability"
	"ecostory/internal/session"
	"ecostory/internal/web"
)

// Version is stamped into traces.
var Version = "dev"

// imageCacheTTL keeps downloaded panel images for PDF export.
const imageCacheTTL = 30 * time.Minute

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Engine  *game.Engine
	Tracing *observability.TracerProvider
}

// New builds the engine for cfg. Close must be called to flush traces.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	tables, err := game.LoadTables(cfg.TablesFile)
	if err != nil {
		return nil, err
	}

	tp, err := observability.InitTracing(ctx, observability.Config{
		ServiceName:    "ecostory",
		ServiceVersion: Version,
		Environment:    cfg.AppEnv,
		Endpoint:       cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, err
	}

	client := llm.New(llm.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		ImageModel: cfg.ImageModel,
		Timeout:    cfg.AITimeout,
	}, log)

	engine := &game.Engine{
		Text:   client,
		Images: client,
		Tables: tables,
		Options: game.Options{
			StoryModel:       cfg.StoryModel,
			SceneModel:       cfg.SceneModel,
			StoryMaxTokens:   cfg.StoryMaxTokens,
			StoryTemperature: cfg.StoryTemperature,
			ImageSize:        cfg.ImageSize,
			ImageConcurrency: cfg.ImageConcurrency,
			ImageLimiter:     newLimiter(cfg.ImageRatePerSec, cfg.ImageConcurrency),
		},
		Logger: log,
	}

	log.Info("Application configured",
		zap.String("env", cfg.AppEnv),
		zap.String("api_key", cfg.MaskedAPIKey()),
		zap.String("story_model", cfg.StoryModel),
		zap.String("scene_model", cfg.SceneModel),
		zap.Int("image_concurrency", cfg.ImageConcurrency),
		zap.Bool("tracing", tp.Enabled()),
	)
	return &App{Config: cfg, Logger: log, Engine: engine, Tracing: tp}, nil
}

// newLimiter returns nil (no pacing) when perSec is not positive.
func newLimiter(perSec float64, burst int) *rate.Limiter {
	if perSec <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSec), burst)
}

// Server returns the web server with templates parsed from the configured
// directory.
func (a *App) Server() (*web.Server, error) {
	tmpl, err := template.ParseGlob(filepath.Join(a.Config.TemplatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &web.Server{
		Engine:  a.Engine,
		Store:   session.NewMemoryStore[*game.Cycle](a.Config.SessionTTL),
		Tmpl:    tmpl,
		Fetcher: a.Fetcher(),
		Logger:  a.Logger,
	}, nil
}

// Fetcher downloads panel images for the PDF, caching them by URL.
func (a *App) Fetcher() comicpdf.Fetcher {
	return comicpdf.NewCachingFetcher(comicpdf.HTTPFetcher{
		Client: &http.Client{Timeout: a.Config.AITimeout},
	}, imageCacheTTL)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}
	hs := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Listening", zap.String("addr", a.Config.HTTPAddr))
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// Close flushes traces and logs.
func (a *App) Close(ctx context.Context) error {
	err := a.Tracing.Shutdown(ctx)
	_ = a.Logger.Sync()
	return err
}
