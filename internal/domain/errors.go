package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed or incomplete request; nothing was written.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the acting identity does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrOutOfStock indicates the product is not available at all.
	ErrOutOfStock = errors.New("out of stock")

	// ErrStockExceeded indicates the requested quantity exceeds the tracked stock count.
	ErrStockExceeded = errors.New("stock exceeded")

	// ErrPaymentIncomplete indicates the processor reports the payment as not finalized.
	ErrPaymentIncomplete = errors.New("payment incomplete")

	// ErrConflict indicates a payment reference is already recorded against an
	// order. Callers treat it as "already processed" and re-fetch the winner.
	ErrConflict = errors.New("conflict")
)
