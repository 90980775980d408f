package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "songbook/internal/adapter/http"
	"songbook/internal/adapter/memory"
	"songbook/internal/adapter/mysql"
	"songbook/internal/adapter/postgres"
	"songbook/internal/app"
	"songbook/internal/config"
	"songbook/internal/domain"
	"songbook/internal/logging"
)

// store is what every storage backend provides.
type store interface {
	domain.UserRepository
	domain.SongRepository
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "songbook:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closer, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() { _ = closer.Close() }()

	hasher := app.NewBcryptHasher(cfg.Session.BcryptCost)
	authSvc := app.NewAuthService(db, hasher, log)
	registrationSvc := app.NewRegistrationService(db, hasher, log)
	songSvc := app.NewSongService(db, log, app.WithOwnerOnlyEdits(cfg.Songs.OwnerOnlyEdits))

	var sso *adapthttp.OIDC
	if cfg.SSO.Enabled {
		sso, err = adapthttp.NewOIDC(ctx, cfg.SSO)
		if err != nil {
			return err
		}
	}

	h := adapthttp.New(authSvc, registrationSvc, songSvc, adapthttp.Options{
		SessionSecret: cfg.Session.Secret,
		SessionMaxAge: cfg.Session.MaxAge,
		SecureCookie:  cfg.Session.SecureCookie,
		Logger:        log,
		SSO:           sso,
	}).Handler()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, log logging.Logger) (store, io.Closer, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "mysql":
		db, err := mysql.Open(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "memory":
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return memory.New(), io.NopCloser(nil), nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
