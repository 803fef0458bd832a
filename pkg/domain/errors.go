package domain

import "errors"

// Common domain errors, translated once at the store boundary and mapped
// once to HTTP status codes at the API boundary.
var (
	// ErrNotFound is returned when a requested resource does not exist or
	// does not belong to the calling user.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned on uniqueness violations.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when no valid credential is presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned on login failure. It deliberately
	// does not distinguish "no such user" from "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidState is returned when an operation is not permitted given
	// the current status of the entity.
	ErrInvalidState = errors.New("operation not permitted in current state")
)

// Verification errors.
var (
	// ErrNoPendingCode is returned when no verification code is on record.
	ErrNoPendingCode = errors.New("no verification code found")
	// ErrCodeExpired is returned when the code's expiry window has elapsed.
	ErrCodeExpired = errors.New("verification code has expired")
	// ErrCodeMismatch is returned when the submitted code does not match.
	ErrCodeMismatch = errors.New("invalid verification code")
)

// Ledger errors.
var (
	// ErrCardFrozen is returned when a transaction targets a frozen card.
	ErrCardFrozen = errors.New("card is frozen")
	// ErrInsufficientBalance is returned when a debit exceeds the card balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
