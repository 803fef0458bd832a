// Package resource serves the peripheral records as plain CRUD
// pass-throughs over the generic repository: banks, bank transfers, crypto
// wallets and transactions, referrals, notifications, and achievements.
package resource

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hazemdiab/ebanking/pkg/domain"
	"github.com/hazemdiab/ebanking/pkg/middleware"
	"github.com/hazemdiab/ebanking/pkg/repository"
	"github.com/hazemdiab/ebanking/webapi/common"
)

// Config describes one resource's routing behavior. Owned resources are
// scoped to the authenticated user on every operation; unowned ones (the
// bank directory) are shared.
type Config[T any] struct {
	// Name appears in response messages.
	Name string
	// Assign stamps a fresh id, and the owner for owned resources, onto a
	// bound entity before it is written.
	Assign func(entity *T, id, userID uuid.UUID)
	// OwnerQuery filters reads to the authenticated user, e.g.
	// "user_id = ?". Empty means unscoped.
	OwnerQuery string
}

// Routes registers the CRUD endpoints for one resource under the group.
func Routes[T any](g fiber.Router, repo repository.Generic[T], cfg Config[T], exposeDetail bool) {
	g.Post("/", create(repo, cfg, exposeDetail))
	g.Get("/", list(repo, cfg, exposeDetail))
	g.Get("/:id", get(repo, cfg, exposeDetail))
	g.Put("/:id", update(repo, cfg, exposeDetail))
	g.Delete("/:id", remove(repo, cfg, exposeDetail))
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation
	}
	return id, nil
}

// fetch loads the entity, enforcing ownership for scoped resources.
func fetch[T any](c *fiber.Ctx, repo repository.Generic[T], cfg Config[T], id uuid.UUID) (*T, error) {
	if cfg.OwnerQuery == "" {
		return repo.Get(c.UserContext(), id)
	}
	return repo.FindOneBy(c.UserContext(), "id = ? AND "+cfg.OwnerQuery, id, middleware.UserID(c))
}

func create[T any](repo repository.Generic[T], cfg Config[T], exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[T](c)
		if input == nil {
			return err
		}
		cfg.Assign(input, uuid.New(), middleware.UserID(c))
		if err := repo.Create(c.UserContext(), input); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, cfg.Name+" created", input)
	}
}

func list[T any](repo repository.Generic[T], cfg Config[T], exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			items []*T
			err   error
		)
		if cfg.OwnerQuery == "" {
			items, err = repo.List(c.UserContext())
		} else {
			items, err = repo.FindBy(c.UserContext(), cfg.OwnerQuery, middleware.UserID(c))
		}
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", items)
	}
}

func get[T any](repo repository.Generic[T], cfg Config[T], exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		entity, err := fetch(c, repo, cfg, id)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", entity)
	}
}

func update[T any](repo repository.Generic[T], cfg Config[T], exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		// Existence and ownership are checked before the write.
		if _, err := fetch(c, repo, cfg, id); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		input, err := common.BindAndValidate[T](c)
		if input == nil {
			return err
		}
		cfg.Assign(input, id, middleware.UserID(c))
		if err := repo.Update(c.UserContext(), input); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, cfg.Name+" updated", input)
	}
}

func remove[T any](repo repository.Generic[T], cfg Config[T], exposeDetail bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		if _, err := fetch(c, repo, cfg, id); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		if err := repo.Delete(c.UserContext(), id); err != nil {
			return common.ErrorResponseJSON(c, err, exposeDetail)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, cfg.Name+" deleted", nil)
	}
}
