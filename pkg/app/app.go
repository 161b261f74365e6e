package app

import (
	"log/slog"

	"github.com/raffleworks/raffleworks/pkg/cache"
	"github.com/raffleworks/raffleworks/pkg/config"
	"github.com/raffleworks/raffleworks/pkg/provider"
	entryrepo "github.com/raffleworks/raffleworks/pkg/repository/entry"
	rafflerepo "github.com/raffleworks/raffleworks/pkg/repository/raffle"
	subrepo "github.com/raffleworks/raffleworks/pkg/repository/subscription"
	txrepo "github.com/raffleworks/raffleworks/pkg/repository/transaction"
	paysvc "github.com/raffleworks/raffleworks/pkg/service/payment"
	reviewsvc "github.com/raffleworks/raffleworks/pkg/service/review"
	txsvc "github.com/raffleworks/raffleworks/pkg/service/transaction"
)

// Deps contains the process-wide dependencies built once at startup and
// passed into each component explicitly; no hidden module-level state.
type Deps struct {
	Ledger      txrepo.Repository
	Entries     entryrepo.Repository
	Raffles     rafflerepo.Repository
	Subs        subrepo.Repository
	Gateway     provider.Gateway
	Idempotency cache.IdempotencyStore
	Plans       map[string]paysvc.Plan
	Logger      *slog.Logger
}

// App wires the services over the shared dependencies.
type App struct {
	Deps               *Deps
	Config             *config.App
	ReviewService      *reviewsvc.Service
	TransactionService *txsvc.Service
	PaymentService     *paysvc.Service
}

// New builds the application services from the dependency set.
func New(deps *Deps, cfg *config.App) *App {
	a := &App{
		Deps:   deps,
		Config: cfg,
	}
	a.ReviewService = reviewsvc.New(deps.Ledger, deps.Entries, deps.Logger)
	a.TransactionService = txsvc.New(deps.Ledger, deps.Raffles, deps.Logger)
	a.PaymentService = paysvc.New(
		deps.Gateway, deps.Subs, deps.Ledger, deps.Idempotency, deps.Plans, deps.Logger,
	).WithRetryPolicy(cfg.Gateway.MaxAttempts, cfg.Gateway.Backoff)
	return a
}
