// Package repository provides the gorm-backed implementations of the
// storage contracts in pkg/repository.
package repository

import (
	"context"

	"gorm.io/gorm"

	infracard "github.com/hazemdiab/ebanking/infra/repository/card"
	infratransaction "github.com/hazemdiab/ebanking/infra/repository/transaction"
	infrauser "github.com/hazemdiab/ebanking/infra/repository/user"
	infraverification "github.com/hazemdiab/ebanking/infra/repository/verification"
	"github.com/hazemdiab/ebanking/pkg/repository"
)

// UoW binds the transaction boundary and repository access together so every
// repository handed out inside Do uses the same DB session. Mutating the
// card balance and inserting the matching ledger entry through one UoW is
// what makes the two writes atomic.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work over the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction. The UoW passed to fn hands out
// repositories bound to that transaction; an error from fn rolls it back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction when inside Do, the root session otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) UserRepository() repository.UserRepository {
	return infrauser.New(u.session())
}

func (u *UoW) VerificationRepository() repository.VerificationRepository {
	return infraverification.New(u.session())
}

func (u *UoW) CardRepository() repository.CardRepository {
	return infracard.New(u.session())
}

func (u *UoW) TransactionRepository() repository.TransactionRepository {
	return infratransaction.New(u.session())
}
