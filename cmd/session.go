package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/circdesk/circdesk/internal/config"
	"github.com/circdesk/circdesk/internal/notify"
	"github.com/circdesk/circdesk/internal/session"
	"github.com/circdesk/circdesk/internal/storage"
)

// runCirculationSession wires configuration, database gateway, audit
// subscribers, and the interactive controller together, then runs one
// session on standard input and output.
func runCirculationSession(ctx context.Context) error {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		return cfgErr
	}

	logger := newLogger(cfg)

	gateway, cleanup, gatewayErr := openGateway(ctx, cfg, logger)
	if gatewayErr != nil {
		return gatewayErr
	}
	defer cleanup()

	if pingErr := gateway.Ping(ctx); pingErr != nil {
		return pingErr
	}

	controller := session.NewController(
		gateway,
		newNotificationHub(cfg, logger),
		os.Stdin,
		os.Stdout,
		sessionOptions()...,
	)

	return controller.Run(ctx)
}

// newLogger builds the structured logger from the configured level and
// installs it as the slog default.
func newLogger(cfg config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	return logger
}

// openGateway opens a database handle for the configured adapter and wraps
// it in a storage gateway. The returned cleanup func closes the handle and
// must be called once the gateway is no longer needed.
func openGateway(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.Gateway, func(), error) {
	options := []storage.Option{
		storage.WithBooksTable(cfg.Database.BooksTable),
		storage.WithRolesTable(cfg.Database.RolesTable),
		storage.WithLogger(logger),
	}

	switch cfg.Database.Adapter {
	case config.AdapterPGXPool:
		pool, openErr := config.OpenPGXPool(ctx, cfg.Database)
		if openErr != nil {
			return storage.Gateway{}, nil, openErr
		}

		gateway, gatewayErr := storage.NewGatewayFromPGXPool(pool, options...)
		if gatewayErr != nil {
			pool.Close()
			return storage.Gateway{}, nil, gatewayErr
		}

		return gateway, pool.Close, nil

	case config.AdapterSQLDB:
		db, openErr := config.OpenSQLDB(cfg.Database)
		if openErr != nil {
			return storage.Gateway{}, nil, openErr
		}

		gateway, gatewayErr := storage.NewGatewayFromSQLDB(db, options...)
		if gatewayErr != nil {
			_ = db.Close()
			return storage.Gateway{}, nil, gatewayErr
		}

		return gateway, func() { _ = db.Close() }, nil

	case config.AdapterSQLX:
		db, openErr := config.OpenSQLX(cfg.Database)
		if openErr != nil {
			return storage.Gateway{}, nil, openErr
		}

		gateway, gatewayErr := storage.NewGatewayFromSQLX(db, options...)
		if gatewayErr != nil {
			_ = db.Close()
			return storage.Gateway{}, nil, gatewayErr
		}

		return gateway, func() { _ = db.Close() }, nil

	default:
		return storage.Gateway{}, nil, config.ErrUnsupportedAdapterType
	}
}

// newNotificationHub registers the audit subscribers in delivery order: the
// plain-text trail first, the JSON trail when a path is configured, the
// structured log last.
func newNotificationHub(cfg config.Config, logger *slog.Logger) *notify.Hub {
	hub := notify.NewHub()
	hub.Register(notify.NewTextFileLogger(cfg.Audit.TextLogPath))

	if cfg.Audit.JSONLogPath != "" {
		hub.Register(notify.NewJSONFileLogger(cfg.Audit.JSONLogPath))
	}

	hub.Register(notify.NewSlogSubscriber(logger))

	return hub
}

// sessionOptions enables the hidden password read only when standard input
// is a terminal; piped input keeps the plain line-based default.
func sessionOptions() []session.Option {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	return []session.Option{session.WithPasswordReader(readPasswordHidden)}
}

// readPasswordHidden reads the password without echoing it, then prints the
// line break the suppressed echo swallowed.
func readPasswordHidden() (string, error) {
	passwordBytes, readErr := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()

	if readErr != nil {
		return "", readErr
	}

	return string(passwordBytes), nil
}
