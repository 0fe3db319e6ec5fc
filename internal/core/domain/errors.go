// internal/core/domain/errors.go
package domain

import "errors"

// Business outcomes of the sales engine and inventory ledger. Handlers
// map each of these to a distinct outward signal with errors.Is.
var (
	// ErrUnauthorized means the caller's role does not permit the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest means the request payload failed field validation.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound means a referenced sale or product does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock means a deduction would take a product's
	// quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPriceMismatch means a line item's total disagrees with
	// quantity x unit price beyond the accepted tolerance.
	ErrPriceMismatch = errors.New("price mismatch")

	// ErrConflict means a conditional write lost to a concurrent update
	// and the retry budget is exhausted.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrEditWindowExpired means the sale is past its edit window.
	ErrEditWindowExpired = errors.New("edit window expired")

	// ErrCompensationFailed means a rollback of already-applied stock
	// deductions failed and inventory was left inconsistent. Fatal;
	// requires manual reconciliation and is never folded into any other
	// error kind.
	ErrCompensationFailed = errors.New("compensation failed")

	// ErrStoreUnavailable means the document store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
