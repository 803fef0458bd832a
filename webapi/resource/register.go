package resource

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	infrarepo "github.com/hazemdiab/ebanking/infra/repository"
	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/model"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

// Register wires the peripheral resource endpoints. Everything requires a
// session; the bank directory is shared while the rest is per-user.
func Register(app *fiber.App, db *gorm.DB, uow repository.UnitOfWork, cfg *config.App, logger *slog.Logger) {
	exposeDetail := cfg.Development()
	protect := middleware.Protected(cfg.Jwt)
	load := middleware.LoadUser(uow, logger)
	api := app.Group("/api", protect, load)

	Routes(api.Group("/banks"), infrarepo.NewGeneric[model.Bank](db), Config[model.Bank]{
		Name: "bank",
		Assign: func(b *model.Bank, id, _ uuid.UUID) {
			b.ID = id
		},
	}, exposeDetail)

	Routes(api.Group("/bank-transfers"), infrarepo.NewGeneric[model.BankTransfer](db), Config[model.BankTransfer]{
		Name: "bank transfer",
		Assign: func(t *model.BankTransfer, id, userID uuid.UUID) {
			t.ID = id
			t.UserID = userID
		},
		OwnerQuery: "user_id = ?",
	}, exposeDetail)

	Routes(api.Group("/crypto/wallets"), infrarepo.NewGeneric[model.CryptoWallet](db), Config[model.CryptoWallet]{
		Name: "crypto wallet",
		Assign: func(w *model.CryptoWallet, id, userID uuid.UUID) {
			w.ID = id
			w.UserID = userID
		},
		OwnerQuery: "user_id = ?",
	}, exposeDetail)

	Routes(api.Group("/crypto/transactions"), infrarepo.NewGeneric[model.CryptoTransaction](db), Config[model.CryptoTransaction]{
		Name: "crypto transaction",
		Assign: func(t *model.CryptoTransaction, id, _ uuid.UUID) {
			t.ID = id
		},
		// Scoped through the owning wallet.
		OwnerQuery: "wallet_id IN (SELECT id FROM crypto_wallets WHERE user_id = ?)",
	}, exposeDetail)

	Routes(api.Group("/referrals"), infrarepo.NewGeneric[model.Referral](db), Config[model.Referral]{
		Name: "referral",
		Assign: func(r *model.Referral, id, userID uuid.UUID) {
			r.ID = id
			r.ReferrerID = userID
		},
		OwnerQuery: "referrer_id = ?",
	}, exposeDetail)

	Routes(api.Group("/notifications"), infrarepo.NewGeneric[model.Notification](db), Config[model.Notification]{
		Name: "notification",
		Assign: func(n *model.Notification, id, userID uuid.UUID) {
			n.ID = id
			n.UserID = userID
		},
		OwnerQuery: "user_id = ?",
	}, exposeDetail)

	Routes(api.Group("/achievements"), infrarepo.NewGeneric[model.Achievement](db), Config[model.Achievement]{
		Name: "achievement",
		Assign: func(a *model.Achievement, id, userID uuid.UUID) {
			a.ID = id
			a.UserID = userID
		},
		OwnerQuery: "user_id = ?",
	}, exposeDetail)
}
