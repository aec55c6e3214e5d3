// Package service provides the cryptographic services behind the token
// lifecycle: signing/verification of compact token strings and password
// hashing/matching for local credentials.
package service

import (
	"time"

	"github.com/allisson/authcore/internal/auth/domain"
)

// TokenCodec signs and verifies compact signed token strings. Each token type
// uses its own signing secret so compromise of one type cannot forge another.
type TokenCodec interface {
	// Sign encodes and signs the claims with the secret for claims.Type.
	// The expiry is iat + ttl. For stored token types the TokenID becomes the
	// jti claim; access tokens carry no jti.
	Sign(claims domain.Claims, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of raw against the secret for
	// tokenType and returns the decoded claims.
	//
	// Structurally invalid input fails fast with ErrTokenMalformed before any
	// cryptographic work. A valid signature past its expiry fails with
	// ErrTokenExpired. A valid token whose embedded type differs from
	// tokenType fails with ErrTokenTypeMismatch.
	Verify(raw string, tokenType domain.TokenType) (*domain.Claims, error)
}

// PasswordService hashes plaintext passwords and verifies candidates against
// stored hashes. Hash output is self-describing (algorithm, salt and cost
// parameters embedded), so verification needs no external parameter storage.
type PasswordService interface {
	// Hash produces a salted, memory-hard hash of plain.
	// Fails with ErrHashing on empty input.
	Hash(plain string) (string, error)

	// Verify recomputes the hash of candidate using the parameters embedded
	// in stored and compares in constant time. Fails with
	// ErrInvalidCredentials on mismatch or ErrMalformedHash when stored is
	// not in a recognizable format.
	Verify(stored string, candidate string) error
}

// Clock supplies the current time. Injected so expiry behavior is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() Clock {
	return systemClock{}
}
