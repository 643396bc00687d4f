package handler

import "errors"

// Domain rejections. These are user-facing business outcomes, not faults, and
// are never logged at error level.
var (
	// ErrNotStarted means the voucher's sale window has not opened yet.
	ErrNotStarted = errors.New("flash sale has not started")

	// ErrEnded means the voucher's sale window is over.
	ErrEnded = errors.New("flash sale has ended")

	// ErrOutOfStock means no stock remained at decision time. It is also
	// returned when the bounded decrement spin is exhausted under contention,
	// even though stock might still exist at that instant.
	ErrOutOfStock = errors.New("voucher out of stock")

	// ErrAlreadyPurchased means this user already holds an order for the voucher.
	ErrAlreadyPurchased = errors.New("voucher already purchased by user")

	// ErrDuplicateRequest means another order attempt from the same user is in
	// flight. Policy is reject rather than queue, to bound tail latency.
	ErrDuplicateRequest = errors.New("duplicate order request in flight")
)
