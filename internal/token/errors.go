package token

import "errors"

var (
	// ErrTokenGeneration indicates token signing failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrTokenMalformed indicates the token is not well formed, carries an
	// unexpected signing method, or its signature does not verify. A forged
	// token and a corrupted one are indistinguishable; both map here.
	ErrTokenMalformed = errors.New("token malformed or signature invalid")

	// ErrTokenExpired indicates the token passed signature verification but
	// its expiry is in the past
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked indicates the token is well formed and unexpired but
	// was revoked before its natural expiry
	ErrTokenRevoked = errors.New("token revoked")
)
