// Package transaction exposes the ledger endpoints: create, list with
// filtering and paging, fetch, edit, delete and aggregate statistics.
package transaction

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/repository"
	txsvc "github.com/hazemdiab/ebanking/pkg/service/transaction"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// CreateRequest is the new-transaction payload.
type CreateRequest struct {
	CardID      *uuid.UUID        `json:"cardId"`
	Type        string            `json:"type" validate:"required"`
	Amount      float64           `json:"amount" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"omitempty,len=3"`
	Description string            `json:"description" validate:"max=255"`
	FromAccount string            `json:"fromAccount" validate:"max=120"`
	ToAccount   string            `json:"toAccount" validate:"max=120"`
	Fees        float64           `json:"fees" validate:"gte=0"`
	Category    string            `json:"category"`
	Location    string            `json:"location" validate:"max=120"`
	Metadata    map[string]string `json:"metadata"`
}

// UpdateRequest edits the post-creation mutable fields.
type UpdateRequest struct {
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed failed cancelled processing"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Category    *string `json:"category"`
}

type listResponse struct {
	Transactions []*dto.TransactionRead `json:"transactions"`
	Pagination   *dto.Pagination        `json:"pagination"`
}

// Routes registers the /api/transactions endpoints. Everything requires a
// session.
func Routes(app *fiber.App, txSvc *txsvc.Service, uow repository.UnitOfWork, cfg *config.App, logger *slog.Logger) {
	exposeDetail := cfg.Development()
	g := app.Group("/api/transactions", middleware.Protected(cfg.Jwt), middleware.LoadUser(uow, logger))

	g.Post("/", Create(txSvc, exposeDetail))
	g.Get("/", List(txSvc, exposeDetail))
	g.Get("/stats", Stats(txSvc, exposeDetail))
	g.Get("/:id", Get(txSvc, exposeDetail))
	g.Put("/:id", Update(txSvc, exposeDetail))
	g.Delete("/:id", Delete(txSvc, exposeDetail))
}

func txID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation
	}
	return id, nil
}

// Create records a new ledger entry, adjusting the bound card's balance.
func Create(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateRequest](c)
		if input == nil {
			return err
		}
		tx, err := txSvc.Create(c.UserContext(), middleware.UserID(c), txsvc.CreateInput{
			CardID:      input.CardID,
			Type:        domain.TransactionType(input.Type),
			Amount:      input.Amount,
			Currency:    input.Currency,
			Description: input.Description,
			FromAccount: input.FromAccount,
			ToAccount:   input.ToAccount,
			Fees:        input.Fees,
			Category:    domain.TransactionCategory(input.Category),
			Location:    input.Location,
			Metadata:    input.Metadata,
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "transaction recorded", tx)
	}
}

// List returns a filtered page of the user's transactions.
func List(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := parseFilter(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		items, pagination, err := txSvc.List(c.UserContext(), middleware.UserID(c), filter)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", listResponse{
			Transactions: items,
			Pagination:   pagination,
		})
	}
}

func parseFilter(c *fiber.Ctx) (*dto.TransactionFilter, error) {
	filter := &dto.TransactionFilter{
		SortBy:   c.Query("sortBy", "createdAt"),
		SortDesc: c.Query("sortOrder", "desc") == "desc",
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	if v := c.Query("status"); v != "" {
		status := domain.TransactionStatus(v)
		if !status.Valid() {
			return nil, domain.ErrValidation
		}
		filter.Status = &status
	}
	if v := c.Query("type"); v != "" {
		typ := domain.TransactionType(v)
		if !typ.Valid() {
			return nil, domain.ErrValidation
		}
		filter.Type = &typ
	}
	if v := c.Query("category"); v != "" {
		category := domain.TransactionCategory(v)
		if !category.Valid() {
			return nil, domain.ErrValidation
		}
		filter.Category = &category
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, domain.ErrValidation
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, domain.ErrValidation
		}
		filter.EndDate = &t
	}
	return filter, nil
}

// Get returns one transaction.
func Get(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := txID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		tx, err := txSvc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", tx)
	}
}

// Update edits the status, description or category of a transaction.
func Update(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := txID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		input, err := common.BindAndValidate[UpdateRequest](c)
		if input == nil {
			return err
		}
		update := &dto.TransactionUpdate{Description: input.Description}
		if input.Status != nil {
			status := domain.TransactionStatus(*input.Status)
			update.Status = &status
		}
		if input.Category != nil {
			category := domain.TransactionCategory(*input.Category)
			update.Category = &category
		}
		tx, err := txSvc.Update(c.UserContext(), middleware.UserID(c), id, update)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "transaction updated", tx)
	}
}

// Delete removes a pending or failed transaction.
func Delete(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := txID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		if err := txSvc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "transaction deleted", nil)
	}
}

// Stats returns per-status and per-type aggregates, optionally bounded to a
// date range.
func Stats(txSvc *txsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var start, end *time.Time
		if v := c.Query("startDate"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return common.ErrorResponseJSON(c, domain.ErrValidation, exposeDetail)
			}
			start = &t
		}
		if v := c.Query("endDate"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return common.ErrorResponseJSON(c, domain.ErrValidation, exposeDetail)
			}
			end = &t
		}
		stats, err := txSvc.Stats(c.UserContext(), middleware.UserID(c), start, end)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", stats)
	}
}
