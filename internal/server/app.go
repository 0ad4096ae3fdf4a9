// Package server initializes and runs the application: it loads the
// signing keys from the secret store, opens the database, applies
// migrations, wires the services, and starts the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/feepo/feepo/internal/logging"
	"github.com/feepo/feepo/internal/server/config"
	"github.com/feepo/feepo/internal/server/httpapi"
	"github.com/feepo/feepo/internal/server/repositories/repomanager"
	"github.com/feepo/feepo/internal/server/secrets"
	"github.com/feepo/feepo/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// NewApp performs all startup work that must succeed before serving:
// fetching the key material, connecting to the database, and running
// migrations. Any failure aborts startup.
func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	ctx, cancel := context.WithTimeout(context.Background(), c.StartupTimeout)
	defer cancel()

	provider, err := secrets.NewAWSProvider(ctx, c.AWSRegion, c.SecretName)
	if err != nil {
		return nil, fmt.Errorf("secret store init error: %w", err)
	}
	material, err := provider.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("secret fetch error: %w", err)
	}

	dsn := c.DatabaseDSN
	if material.DatabaseAddr != "" {
		dsn = material.DatabaseAddr
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	userService := services.NewUserService(db, rm, material.Keys, c.TokenValidityDuration)
	artistService := services.NewArtistService(db, rm)
	uploadService := services.NewUploadService(c)

	srv := httpapi.NewServer(c.Address, userService, artistService, uploadService,
		material.Keys.PublicKey(), logger)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
