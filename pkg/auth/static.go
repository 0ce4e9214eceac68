package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vector-pai/pkg/errors"
)

// StaticValidator verifies HS256 tokens signed with a shared secret.
// Used for local development only.
type StaticValidator struct {
	secret []byte
	issuer string
}

// NewStaticValidator creates a validator for tokens signed with secret.
// When issuer is set the iss claim must match it.
func NewStaticValidator(secret, issuer string) (*StaticValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &StaticValidator{secret: []byte(secret), issuer: issuer}, nil
}

// Validate verifies a token signed with the shared secret
func (v *StaticValidator) Validate(_ context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, errors.NewAuthenticationError("missing authorization token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.NewAuthenticationError("token has expired").WithCause(err)
		case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.NewAuthenticationError("invalid token signature").WithCause(err)
		default:
			return nil, errors.NewAuthenticationError("invalid token").WithCause(err)
		}
	}

	claims := tc.toClaims()
	if claims.Subject == "" {
		return nil, errors.NewAuthenticationError("token has no subject")
	}
	return claims, nil
}

// IssueStaticToken signs an HS256 token carrying c, valid for ttl
func IssueStaticToken(secret, issuer string, c Claims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is required")
	}
	now := time.Now()

	tokenUse := c.TokenUse
	if tokenUse == "" {
		tokenUse = TokenUseAccess
	}

	tc := tokenClaims{
		Username: c.Username,
		ClientID: c.ClientID,
		TokenUse: tokenUse,
		Groups:   c.Groups,
		Scope:    c.Scope,
		Email:    c.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString([]byte(secret))
}
