// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/config"
	"github.com/olegiv/ocms-menus/internal/handler"
	"github.com/olegiv/ocms-menus/internal/handler/api"
	"github.com/olegiv/ocms-menus/internal/hooks"
	"github.com/olegiv/ocms-menus/internal/i18n"
	"github.com/olegiv/ocms-menus/internal/logging"
	"github.com/olegiv/ocms-menus/internal/menu"
	"github.com/olegiv/ocms-menus/internal/middleware"
	"github.com/olegiv/ocms-menus/internal/pagetree"
	"github.com/olegiv/ocms-menus/internal/render"
	"github.com/olegiv/ocms-menus/internal/scheduler"
	"github.com/olegiv/ocms-menus/internal/service"
	"github.com/olegiv/ocms-menus/internal/store"
	"github.com/olegiv/ocms-menus/internal/version"
	"github.com/olegiv/ocms-menus/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ocms-menus - navigation menus for a page tree\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_PATH           SQLite database path (default: ./data/ocms-menus.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_CUSTOM_DIR        Directory whose templates/ overrides the built-in ones (default: ./custom)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DO_SEED           Seed a demo site when none exists (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_MENUS_*           Menu settings, e.g. OCMS_MENUS_ACTIVE_CLASS\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("ocms-menus %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	settings, err := config.LoadMenuSettings(logger)
	if err != nil {
		return fmt.Errorf("loading menu settings: %w", err)
	}

	if err := i18n.Init(cfg.Languages, cfg.DefaultLanguage, logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n initialized", "languages", i18n.Languages(), "default", i18n.DefaultLanguage())

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.SeedDemo(ctx, db, settings, logger); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	sharedCache, err := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = sharedCache.Close() }()

	queries := store.New(db)
	tree := pagetree.New(queries, sharedCache, cfg.CacheTTLDuration(), logger)

	sched := scheduler.New(logger)
	if cfg.CacheRefreshSchedule != "" {
		err := sched.Add("refresh-site-roots", cfg.CacheRefreshSchedule, func(ctx context.Context) error {
			if err := tree.InvalidateSiteRoots(ctx); err != nil {
				return err
			}
			_, err := tree.SiteRoots(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("scheduling site root refresh: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	templates, err := render.NewLoader(render.Config{
		FS:      web.Templates(),
		Dir:     templateOverrideDir(cfg.CustomDir),
		Funcs:   menu.TemplateFuncs(),
		NoCache: cfg.IsDevelopment(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("initializing templates: %w", err)
	}

	// Host code registers its menu hooks here, before the engine is built.
	hookRegistry := hooks.NewRegistry(logger)

	// NewEngine resolves the menu model and class settings, so a bad
	// binding stops the process here rather than on the first request.
	engine, err := menu.NewEngine(menu.Config{
		Tree:      tree,
		Store:     queries,
		Settings:  settings,
		Hooks:     hookRegistry,
		Templates: templates,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("initializing menu engine: %w", err)
	}

	apiHandler, err := api.NewHandler(engine, logger)
	if err != nil {
		return fmt.Errorf("initializing api handler: %w", err)
	}
	previewHandler := handler.NewPreviewHandler(service.NewMenuService(engine, logger), templates, logger)
	healthHandler := handler.NewHealthHandler(db, sharedCache, version.Current())
	apiRateLimiter := middleware.NewAPIRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Language)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AppendTrailingSlash)
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(apiRateLimiter.Middleware())
			apiHandler.Routes(r)
		})
		r.Get("/preview/*", previewHandler.Preview)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Current().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// templateOverrideDir returns customDir/templates when it exists.
func templateOverrideDir(customDir string) string {
	if customDir == "" {
		return ""
	}
	dir := filepath.Join(customDir, "templates")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
