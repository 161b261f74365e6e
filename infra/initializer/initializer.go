// Package initializer builds the process-wide dependency set from
// configuration: logger, database, repositories, gateway, and the
// idempotency store.
package initializer

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/raffleworks/raffleworks/infra"
	infracache "github.com/raffleworks/raffleworks/infra/cache"
	stripegw "github.com/raffleworks/raffleworks/infra/provider/stripe"
	entryrepo "github.com/raffleworks/raffleworks/infra/repository/entry"
	"github.com/raffleworks/raffleworks/infra/repository/model"
	rafflerepo "github.com/raffleworks/raffleworks/infra/repository/raffle"
	subrepo "github.com/raffleworks/raffleworks/infra/repository/subscription"
	txrepo "github.com/raffleworks/raffleworks/infra/repository/transaction"
	"github.com/raffleworks/raffleworks/pkg/app"
	"github.com/raffleworks/raffleworks/pkg/config"
	paysvc "github.com/raffleworks/raffleworks/pkg/service/payment"
)

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.Transaction{},
		&model.Entry{},
		&model.Raffle{},
		&model.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	deps.Ledger = txrepo.New(db)
	deps.Entries = entryrepo.New(db)
	deps.Raffles = rafflerepo.New(db)
	deps.Subs = subrepo.New(db)

	deps.Gateway = stripegw.New(cfg.Stripe, logger)

	// Redis-backed idempotency store when configured, in-memory otherwise.
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		opt.PoolSize = cfg.Redis.PoolSize
		opt.DialTimeout = cfg.Redis.DialTimeout
		opt.ReadTimeout = cfg.Redis.ReadTimeout
		opt.WriteTimeout = cfg.Redis.WriteTimeout
		deps.Idempotency = infracache.NewRedisIdempotencyStore(opt, cfg.Redis.KeyPrefix, logger)
	} else {
		deps.Idempotency = infracache.NewMemoryIdempotencyStore()
	}

	deps.Plans = defaultPlans()

	return deps, nil
}

// defaultPlans is the built-in plan catalog. Amounts are in the smallest
// currency unit.
func defaultPlans() map[string]paysvc.Plan {
	return map[string]paysvc.Plan{
		"monthly": {Ref: "monthly", Amount: 999, Currency: "usd"},
		"yearly":  {Ref: "yearly", Amount: 9999, Currency: "usd"},
	}
}
