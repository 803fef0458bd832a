// Package initializer builds the application dependency graph from the
// loaded configuration.
package initializer

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/infra"
	"github.com/hazemdiab/ebanking/infra/cache"
	infranotifier "github.com/hazemdiab/ebanking/infra/notifier"
	infrarepo "github.com/hazemdiab/ebanking/infra/repository"
	cardrepo "github.com/hazemdiab/ebanking/infra/repository/card"
	txrepo "github.com/hazemdiab/ebanking/infra/repository/transaction"
	userrepo "github.com/hazemdiab/ebanking/infra/repository/user"
	verificationrepo "github.com/hazemdiab/ebanking/infra/repository/verification"
	"github.com/hazemdiab/ebanking/pkg/app"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/model"
)

// InitializeDependencies opens the database, runs the schema migration and
// wires the optional cache and notifier.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	deps := &app.Deps{
		Uow:    infrarepo.NewUoW(db),
		DB:     db,
		Logger: logger,
	}

	if cfg.Redis.Addr != "" {
		deps.Cache = cache.New(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.TTL, logger)
		logger.Info("response cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	if cfg.Notifier.AmqpURL != "" {
		n, err := infranotifier.NewAMQP(cfg.Notifier.AmqpURL, cfg.Notifier.Exchange, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to broker: %w", err)
		}
		deps.Notifier = n
	} else {
		deps.Notifier = infranotifier.NewLog(logger)
		logger.Info("no broker configured, notifications go to the log")
	}

	return deps, nil
}

// Migrate creates or updates the schema for every persisted record.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userrepo.User{},
		&verificationrepo.Verification{},
		&cardrepo.Card{},
		&txrepo.Transaction{},
		&model.Bank{},
		&model.BankTransfer{},
		&model.CryptoWallet{},
		&model.CryptoTransaction{},
		&model.Referral{},
		&model.Notification{},
		&model.Achievement{},
	)
}
