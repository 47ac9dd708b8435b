package domain

import "errors"

var (
	// ErrUnauthorized marks a rejected credential or an expired session; the
	// cart engine treats it as the signal to fall back to guest mode.
	ErrUnauthorized = errors.New("unauthorized")

	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
