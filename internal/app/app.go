// Package app initializes and runs the game server: it selects the store
// backend, wires the vote service and notification publisher, handles
// graceful shutdown, and serves the HTTP ballot gateway.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkhalov/caucus/internal/config"
	"github.com/dkhalov/caucus/internal/gateway"
	"github.com/dkhalov/caucus/internal/logging"
	"github.com/dkhalov/caucus/internal/notify"
	"github.com/dkhalov/caucus/internal/store"
	"github.com/dkhalov/caucus/internal/votes"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	service *votes.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	var st store.Store
	if c.DatabaseDSN != "" {
		db, err := sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := store.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		st = store.NewPostgres(db)
	} else {
		st = store.NewRedis(client)
	}

	pub := notify.NewRedisPublisher(client, c.ChannelPrefix)
	service := votes.NewService(st, pub, logger, c.EntityTTL)

	return &App{config: c, logger: logger, service: service}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	gw := gateway.New(app.service, app.logger)
	server := &http.Server{Addr: app.config.BindAddr, Handler: gw.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.BindAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
