package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/authcore/internal/auth/domain"
	apperrors "github.com/allisson/authcore/internal/errors"
)

// jwtClaims is the wire shape of a signed token: the registered claim set
// plus a custom type claim identifying the lifecycle class.
type jwtClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// jwtTokenCodec implements TokenCodec using HMAC-SHA256 signatures with a
// per-type secret.
type jwtTokenCodec struct {
	issuer  string
	secrets map[domain.TokenType][]byte
	clock   Clock
}

// NewJWTTokenCodec creates a TokenCodec signing with the given per-type secrets.
func NewJWTTokenCodec(
	issuer string,
	accessSecret string,
	refreshSecret string,
	verificationSecret string,
	clock Clock,
) TokenCodec {
	return &jwtTokenCodec{
		issuer: issuer,
		secrets: map[domain.TokenType][]byte{
			domain.AccessToken:       []byte(accessSecret),
			domain.RefreshToken:      []byte(refreshSecret),
			domain.VerificationToken: []byte(verificationSecret),
		},
		clock: clock,
	}
}

// Sign encodes and signs the claims. exp = iat + ttl, both taken from the
// injected clock.
func (c *jwtTokenCodec) Sign(claims domain.Claims, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[claims.Type]
	if !ok {
		return "", apperrors.Wrap(domain.ErrTokenMalformed, fmt.Sprintf("no secret for token type %q", claims.Type))
	}

	now := c.clock.Now()

	registered := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if claims.TokenID != 0 {
		registered.ID = strconv.FormatInt(claims.TokenID, 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		TokenType:        string(claims.Type),
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks signature, issuer and expiry, then decodes the claims.
func (c *jwtTokenCodec) Verify(raw string, tokenType domain.TokenType) (*domain.Claims, error) {
	// Cheap structural check before any cryptographic work.
	if raw == "" || strings.Count(raw, ".") != 2 {
		return nil, apperrors.Wrap(domain.ErrTokenMalformed, "token is not a compact JWS")
	}

	secret, ok := c.secrets[tokenType]
	if !ok {
		return nil, apperrors.Wrap(domain.ErrTokenMalformed, fmt.Sprintf("no secret for token type %q", tokenType))
	}

	parsed, err := jwt.ParseWithClaims(
		raw,
		&jwtClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, domain.ErrTokenMalformed
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, apperrors.Wrap(domain.ErrTokenMalformed, err.Error())
	}

	wireClaims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrTokenMalformed
	}

	decodedType, err := domain.ParseTokenType(wireClaims.TokenType)
	if err != nil {
		return nil, err
	}
	if decodedType != tokenType {
		return nil, domain.ErrTokenTypeMismatch
	}

	claims := &domain.Claims{
		Subject: wireClaims.Subject,
		Type:    decodedType,
	}

	// Stored token types must reference a row; access tokens carry no jti.
	if wireClaims.ID == "" {
		if tokenType.Stored() {
			return nil, apperrors.Wrap(domain.ErrTokenMalformed, "missing jti")
		}
		return claims, nil
	}

	tokenID, err := strconv.ParseInt(wireClaims.ID, 10, 64)
	if err != nil || tokenID < 0 {
		return nil, apperrors.Wrap(domain.ErrTokenMalformed, fmt.Sprintf("invalid jti %q", wireClaims.ID))
	}
	claims.TokenID = tokenID

	return claims, nil
}
