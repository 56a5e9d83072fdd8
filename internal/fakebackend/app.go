package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/logging"
)

// Config holds the settings of the standalone development backend.
//
// Admin accounts cannot be self-registered, so one is seeded at start when
// AdminEmail is set.
type Config struct {
	Addr          string `env:"PADHO_DEV_ADDR" envDefault:"127.0.0.1:8001"`
	AdminEmail    string `env:"PADHO_DEV_ADMIN_EMAIL" envDefault:"admin@example.org"`
	AdminPassword string `env:"PADHO_DEV_ADMIN_PASSWORD" envDefault:"admin123"`
	LogLevel      string `env:"PADHO_DEV_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads the environment and then args. Bad values panic.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg, args)
	return cfg
}

// App runs a Handler on a real listener until interrupted.
type App struct {
	config  *Config
	logger  logging.Logger
	service *Service
	server  *http.Server
}

func NewApp(c *Config, logger logging.Logger) (*App, error) {
	svc := NewService()
	if c.AdminEmail != "" {
		if _, err := svc.Register(c.AdminEmail, c.AdminPassword, "Administrator", models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	return &App{
		config:  c,
		logger:  logger.With("module", "fakebackend"),
		service: svc,
		server: &http.Server{
			Addr:              c.Addr,
			Handler:           NewHandler(svc).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until ctx is done or the process receives SIGINT, SIGTERM or
// SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.logger.Info(gctx, "Starting development backend", "address", app.config.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(gctx, "Stopping development backend...")
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return app.server.Shutdown(sctx)
	})
	return g.Wait()
}
