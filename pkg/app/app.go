// Package app bundles the configured services behind one struct so the HTTP
// layer and the tests share the same wiring.
package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/hazemdiab/ebanking/infra/cache"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/notifier"
	"github.com/hazemdiab/ebanking/pkg/repository"
	authsvc "github.com/hazemdiab/ebanking/pkg/service/auth"
	cardsvc "github.com/hazemdiab/ebanking/pkg/service/card"
	txsvc "github.com/hazemdiab/ebanking/pkg/service/transaction"
	usersvc "github.com/hazemdiab/ebanking/pkg/service/user"
	verificationsvc "github.com/hazemdiab/ebanking/pkg/service/verification"
)

// Deps carries the external dependencies the services are built on. DB may
// be nil in tests that fake the unit of work.
type Deps struct {
	Uow      repository.UnitOfWork
	DB       *gorm.DB
	Cache    *cache.Cache
	Notifier notifier.Notifier
	Logger   *slog.Logger
}

// App holds the configured services.
type App struct {
	Deps   *Deps
	Config *config.App

	AuthService         *authsvc.Service
	UserService         *usersvc.Service
	CardService         *cardsvc.Service
	TransactionService  *txsvc.Service
	VerificationService *verificationsvc.Service
}

// New builds the service graph.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:                deps,
		Config:              cfg,
		AuthService:         authsvc.New(deps.Uow, cfg.Jwt, deps.Logger),
		UserService:         usersvc.New(deps.Uow, deps.Logger),
		CardService:         cardsvc.New(deps.Uow, deps.Cache, deps.Logger),
		TransactionService:  txsvc.New(deps.Uow, deps.Cache, deps.Logger),
		VerificationService: verificationsvc.New(deps.Uow, deps.Notifier, deps.Logger),
	}
}
