// Package common contains shared constants and sentinel errors used across
// scanledger components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Ledger-level errors.
	ErrDuplicateCode = errors.New("code already scanned")
	ErrNotFound      = errors.New("not found")

	// Transfer / import errors.
	ErrBadFormat = errors.New("bad format")

	// Remote endpoint errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("endpoint unavailable")
)
