// Package card exposes the card management endpoints. Card numbers are
// always rendered masked; the raw number and CVV never leave the store.
package card

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/config"
	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/dto"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/repository"
	cardsvc "github.com/hazemdiab/ebanking/pkg/service/card"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// CreateRequest is the new-card payload.
type CreateRequest struct {
	CardType     string  `json:"cardType" validate:"required,oneof=debit credit virtual prepaid"`
	CardName     string  `json:"cardName" validate:"max=60"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	IsDefault    bool    `json:"isDefault"`
	DailyLimit   float64 `json:"dailyLimit" validate:"gte=0"`
	MonthlyLimit float64 `json:"monthlyLimit" validate:"gte=0"`
}

// UpdateRequest edits the mutable card fields.
type UpdateRequest struct {
	CardName     *string  `json:"cardName" validate:"omitempty,max=60"`
	IsDefault    *bool    `json:"isDefault"`
	CardStatus   *string  `json:"cardStatus" validate:"omitempty,oneof=active blocked expired"`
	DailyLimit   *float64 `json:"dailyLimit" validate:"omitempty,gte=0"`
	MonthlyLimit *float64 `json:"monthlyLimit" validate:"omitempty,gte=0"`
}

// view is the client-facing card shape with the number masked.
type view struct {
	*dto.CardRead
	MaskedNumber string `json:"cardNumber"`
}

func render(card *dto.CardRead) view {
	return view{CardRead: card, MaskedNumber: card.MaskedNumber()}
}

func renderAll(cards []*dto.CardRead) []view {
	out := make([]view, len(cards))
	for i, card := range cards {
		out[i] = render(card)
	}
	return out
}

// Routes registers the /api/cards endpoints. Everything requires a session.
func Routes(app *fiber.App, cardSvc *cardsvc.Service, uow repository.UnitOfWork, cfg *config.App, logger *slog.Logger) {
	exposeDetail := cfg.Development()
	g := app.Group("/api/cards", middleware.Protected(cfg.Jwt), middleware.LoadUser(uow, logger))

	g.Post("/", Create(cardSvc, exposeDetail))
	g.Get("/", List(cardSvc, exposeDetail))
	g.Get("/:id", Get(cardSvc, exposeDetail))
	g.Put("/:id", Update(cardSvc, exposeDetail))
	g.Post("/:id/freeze", Freeze(cardSvc, exposeDetail))
	g.Post("/:id/unfreeze", Unfreeze(cardSvc, exposeDetail))
	g.Post("/:id/set-default", SetDefault(cardSvc, exposeDetail))
	g.Delete("/:id", Delete(cardSvc, exposeDetail))
}

func cardID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation
	}
	return id, nil
}

// Create issues a new card.
func Create(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateRequest](c)
		if input == nil {
			return err
		}
		card, err := cardSvc.Create(c.UserContext(), middleware.UserID(c), cardsvc.CreateInput{
			CardType:  domain.CardType(input.CardType),
			CardName:  input.CardName,
			Currency:  input.Currency,
			IsDefault: input.IsDefault,
			Limits: dto.CardLimits{
				DailyLimit:   input.DailyLimit,
				MonthlyLimit: input.MonthlyLimit,
			},
		})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "card created", render(card))
	}
}

// List returns the user's cards.
func List(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cards, err := cardSvc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", renderAll(cards))
	}
}

// Get returns one card.
func Get(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := cardID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		card, err := cardSvc.Get(c.UserContext(), middleware.UserID(c), id)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", render(card))
	}
}

// Update edits the card's name, limits, status or default flag.
func Update(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := cardID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		input, err := common.BindAndValidate[UpdateRequest](c)
		if input == nil {
			return err
		}
		update := &dto.CardUpdate{
			CardName:  input.CardName,
			IsDefault: input.IsDefault,
		}
		if input.CardStatus != nil {
			status := domain.CardStatus(*input.CardStatus)
			update.CardStatus = &status
		}
		if input.DailyLimit != nil || input.MonthlyLimit != nil {
			limits := dto.CardLimits{}
			if input.DailyLimit != nil {
				limits.DailyLimit = *input.DailyLimit
			}
			if input.MonthlyLimit != nil {
				limits.MonthlyLimit = *input.MonthlyLimit
			}
			update.Limits = &limits
		}
		card, err := cardSvc.Update(c.UserContext(), middleware.UserID(c), id, update)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "card updated", render(card))
	}
}

// Freeze blocks the card from spending.
func Freeze(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return frozenToggle(cardSvc, exposeDetail, true)
}

// Unfreeze lifts the freeze.
func Unfreeze(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return frozenToggle(cardSvc, exposeDetail, false)
}

func frozenToggle(cardSvc *cardsvc.Service, exposeDetail, freeze bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := cardID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		var card *dto.CardRead
		if freeze {
			card, err = cardSvc.Freeze(c.UserContext(), middleware.UserID(c), id)
		} else {
			card, err = cardSvc.Unfreeze(c.UserContext(), middleware.UserID(c), id)
		}
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		msg := "card frozen"
		if !freeze {
			msg = "card unfrozen"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, msg, render(card))
	}
}

// SetDefault makes the card the owner's default, demoting the previous one.
func SetDefault(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := cardID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		isDefault := true
		card, err := cardSvc.Update(c.UserContext(), middleware.UserID(c), id, &dto.CardUpdate{IsDefault: &isDefault})
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "default card set", render(card))
	}
}

// Delete removes the card.
func Delete(cardSvc *cardsvc.Service, exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := cardID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		if err := cardSvc.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "card deleted", nil)
	}
}
