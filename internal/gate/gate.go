// Package gate implements the passcode check that guards a session. The
// secret is a single shared passcode with no expiry: once Unlock succeeds the
// session keeps it for the remote calls that need it.
package gate

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"scanledger/internal/common"
)

// Mode selects how the passcode is checked.
type Mode string

const (
	// ModeLocal compares against an argon2id hash stored in config.
	ModeLocal Mode = "local"
	// ModeRemote asks the endpoint via action=validate.
	ModeRemote Mode = "remote"
)

// Validator is satisfied by the remote endpoint client.
type Validator interface {
	Validate(ctx context.Context, passcode string) error
}

type Gate struct {
	mode      Mode
	fixed     string
	hash      []byte
	salt      []byte
	validator Validator
}

// NewFixed builds a gate over a fixed plaintext passcode, the simplest local
// deployment.
func NewFixed(passcode string) *Gate {
	return &Gate{mode: ModeLocal, fixed: passcode}
}

// NewLocal builds a gate over a stored hex-encoded argon2id hash and salt.
func NewLocal(hashHex, saltHex string) (*Gate, error) {
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode passcode hash: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode passcode salt: %w", err)
	}
	return &Gate{mode: ModeLocal, hash: hash, salt: salt}, nil
}

// NewRemote builds a gate that defers to the endpoint.
func NewRemote(v Validator) *Gate {
	return &Gate{mode: ModeRemote, validator: v}
}

// HashPasscode derives the stored hash for a passcode and salt. Used by
// deployments that provision the local mode config.
func HashPasscode(passcode string, salt []byte) []byte {
	return argon2.IDKey([]byte(passcode), salt, 1, 64*1024, 4, 32)
}

// Unlock checks the passcode. Returns common.ErrUnauthorized when it is
// rejected; remote infrastructure failures pass through unchanged so the
// caller can tell "wrong passcode" from "endpoint down".
func (g *Gate) Unlock(ctx context.Context, passcode string) error {
	switch g.mode {
	case ModeLocal:
		if g.hash == nil {
			if subtle.ConstantTimeCompare([]byte(passcode), []byte(g.fixed)) != 1 {
				return common.ErrUnauthorized
			}
			return nil
		}
		candidate := HashPasscode(passcode, g.salt)
		if subtle.ConstantTimeCompare(candidate, g.hash) != 1 {
			return common.ErrUnauthorized
		}
		return nil
	case ModeRemote:
		return g.validator.Validate(ctx, passcode)
	default:
		return fmt.Errorf("unknown gate mode %q", g.mode)
	}
}
