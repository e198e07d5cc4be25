package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/myfoliopanel/internal/adapter/driven/github"
	seedadapter "github.com/ericfisherdev/myfoliopanel/internal/adapter/driven/seed"
	sqliteadapter "github.com/ericfisherdev/myfoliopanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/myfoliopanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/myfoliopanel/internal/application"
	"github.com/ericfisherdev/myfoliopanel/internal/config"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"sync_timeout", cfg.SyncTimeout,
		"log_level", cfg.LogLevel,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	store := application.NewLocalStore(sqliteadapter.NewKVRepo(db), slog.Default())
	seed := seedSource(cfg)

	// 6. Load the credential vault. A missing or unreadable entry leaves sync
	// unconfigured until credentials are saved through the API.
	box := application.NewSecretBox(application.NewStaticKeyProvider(cfg.SecretKey))
	vault := application.NewCredentialVault(store, box, slog.Default())
	if vault.Load(ctx) {
		ghCfg, _ := vault.Config()
		slog.Info("github sync configured", "repo", ghCfg.FullName())
	} else {
		slog.Info("no github sync configured")
	}

	// 7. Load or seed the portfolio.
	manager := application.NewPortfolioManager(store, seed, slog.Default())
	if err := manager.Init(ctx); err != nil {
		return err
	}
	defer func() {
		// The signal context is already cancelled at this point.
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Close(flushCtx); err != nil {
			slog.Error("error flushing portfolio", "error", err)
		}
	}()

	// 8. Create access gate and sync service. Clients are built per token so
	// a credential change takes effect on the next sync.
	gate := application.NewAccessGate(store, slog.Default())
	provider := application.NewContentClientProvider(func(token string) (driven.ContentStore, error) {
		client, err := githubadapter.NewClient(token, cfg.GitHubAPIURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
	syncSvc := application.NewSyncService(vault, manager, provider, slog.Default(), time.Now)

	// 9. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(manager, vault, gate, syncSvc, cfg.SyncTimeout, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SyncTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 10. Log startup complete.
	slog.Info("myfoliopanel started", "listen_addr", cfg.ListenAddr, "state", manager.State())

	// 11. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 12. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// seedSource picks the first-run dataset: an explicit file, a URL, or the
// placeholder bundled into the binary.
func seedSource(cfg *config.Config) driven.SeedSource {
	switch {
	case cfg.SeedPath != "":
		slog.Info("seed source", "path", cfg.SeedPath)
		return seedadapter.NewFileSource(cfg.SeedPath)
	case cfg.SeedURL != "":
		slog.Info("seed source", "url", cfg.SeedURL)
		return seedadapter.NewHTTPSource(cfg.SeedURL, &http.Client{Timeout: cfg.SyncTimeout})
	default:
		return seedadapter.Bundled()
	}
}
