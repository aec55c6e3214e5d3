package service

import (
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/scrypt"

	"github.com/allisson/authcore/internal/auth/domain"
	apperrors "github.com/allisson/authcore/internal/errors"
)

// legacyScryptPrefix marks hashes imported from the predecessor system, which
// stored passwords as scrypt$N$r$p$<salt>$<key> with base64 raw-std encoding.
// New hashes are always Argon2id; legacy hashes remain verifiable until the
// account's next password change re-hashes them.
const legacyScryptPrefix = "scrypt$"

// passwordService implements PasswordService using Argon2id for new hashes
// and an scrypt verifier for legacy ones.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{
		hasher: hasher,
	}
}

// Hash produces an Argon2id hash of plain with embedded salt and cost parameters.
func (p *passwordService) Hash(plain string) (string, error) {
	if plain == "" {
		return "", apperrors.Wrap(domain.ErrHashing, "password must not be empty")
	}

	hashed, err := p.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(domain.ErrHashing, err.Error())
	}

	return hashed, nil
}

// Verify matches candidate against stored, dispatching on the hash format.
func (p *passwordService) Verify(stored string, candidate string) error {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		ok, err := p.hasher.Verify([]byte(candidate), stored)
		if err != nil {
			return apperrors.Wrap(domain.ErrMalformedHash, err.Error())
		}
		if !ok {
			return domain.ErrInvalidCredentials
		}
		return nil

	case strings.HasPrefix(stored, legacyScryptPrefix):
		return verifyLegacyScrypt(stored, candidate)

	default:
		return apperrors.Wrap(domain.ErrMalformedHash, "unrecognized hash format")
	}
}

// verifyLegacyScrypt recomputes the scrypt key of candidate using the cost
// parameters and salt embedded in stored and compares in constant time.
func verifyLegacyScrypt(stored string, candidate string) error {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return apperrors.Wrap(domain.ErrMalformedHash, "scrypt hash must have 6 fields")
	}

	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, "invalid scrypt N parameter")
	}
	r, err := strconv.Atoi(parts[2])
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, "invalid scrypt r parameter")
	}
	pp, err := strconv.Atoi(parts[3])
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, "invalid scrypt p parameter")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, "invalid scrypt salt encoding")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, "invalid scrypt key encoding")
	}

	derived, err := scrypt.Key([]byte(candidate), salt, n, r, pp, len(key))
	if err != nil {
		return apperrors.Wrap(domain.ErrMalformedHash, err.Error())
	}

	if subtle.ConstantTimeCompare(derived, key) != 1 {
		return domain.ErrInvalidCredentials
	}

	return nil
}
