package delivery

import "errors"

var (
	// ErrInvalidToken means no token matches the presented secret.
	ErrInvalidToken = errors.New("unknown delivery token")

	// ErrRevoked means the token was administratively disabled.
	ErrRevoked = errors.New("delivery token revoked")

	// ErrExpired means the token's lifetime has elapsed.
	ErrExpired = errors.New("delivery token expired")

	// ErrExhausted means every permitted download has been used.
	ErrExhausted = errors.New("delivery token exhausted")

	// ErrAssetUnavailable means the underlying asset could not be resolved
	// or fetched from its origin.
	ErrAssetUnavailable = errors.New("asset unavailable")
)
