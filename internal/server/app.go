// Package server wires the application together: configuration, logging,
// the encryption key, database, migrations, services and the HTTP server.
// It refuses to start without a valid encryption key.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dunkey/dunkey-server/internal/cryptox"
	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/config"
	"github.com/dunkey/dunkey-server/internal/server/httpapi"
	"github.com/dunkey/dunkey-server/internal/server/repositories/repomanager"
	"github.com/dunkey/dunkey-server/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	key, err := cryptox.LoadKey(cfg.EncryptionKeyB64)
	if err != nil {
		return nil, fmt.Errorf("loading encryption key: %w", err)
	}
	cipher, err := cryptox.NewFieldCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	audit := services.NewAudit(logger)
	userService := services.NewUserService(db, m, cipher, audit, logger, cfg)
	vaultService := services.NewVaultService(db, m, cipher, audit, logger)

	api := httpapi.NewAPI(userService, vaultService, []byte(cfg.SecretKey), logger)
	srv := httpapi.NewServer(cfg.Address, api, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(ctx, "closing db", "error", closeErr)
	}
	return err
}
