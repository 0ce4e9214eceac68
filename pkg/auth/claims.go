// Package auth verifies bearer tokens issued by the user pool and exposes
// the verified claims to request handlers.
package auth

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vector-pai/pkg/errors"
)

// AdminGroup is the user pool group allowed to run privileged operations
const AdminGroup = "admin"

// Token uses accepted by the validators
const (
	TokenUseAccess = "access"
	TokenUseID     = "id"
)

// Claims is the verified identity carried by a token
type Claims struct {
	Subject   string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	TokenUse  string    `json:"token_use,omitempty"`
	Groups    []string  `json:"groups"`
	Scope     string    `json:"scope,omitempty"`
	Issuer    string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasGroup reports whether the caller belongs to group
func (c *Claims) HasGroup(group string) bool {
	if c == nil {
		return false
	}
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller belongs to AdminGroup
func (c *Claims) IsAdmin() bool {
	return c.HasGroup(AdminGroup)
}

// TokenValidator verifies a raw token and returns its claims.
// Every failure is an AuthenticationError.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// tokenClaims is the wire shape of user pool access and id tokens
type tokenClaims struct {
	Username        string   `json:"username,omitempty"`
	CognitoUsername string   `json:"cognito:username,omitempty"`
	ClientID        string   `json:"client_id,omitempty"`
	TokenUse        string   `json:"token_use,omitempty"`
	Groups          []string `json:"cognito:groups,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	Email           string   `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (tc tokenClaims) toClaims() *Claims {
	c := &Claims{
		Subject:  tc.Subject,
		Username: tc.Username,
		Email:    tc.Email,
		ClientID: tc.ClientID,
		TokenUse: tc.TokenUse,
		Groups:   tc.Groups,
		Scope:    tc.Scope,
		Issuer:   tc.Issuer,
	}
	if c.Username == "" {
		c.Username = tc.CognitoUsername
	}
	if c.Groups == nil {
		c.Groups = []string{}
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time.UTC()
	}
	return c
}

var bearerPrefix = regexp.MustCompile(`(?i)^bearer\s+`)

// ExtractBearer reads the token from the Authorization header, or from the
// legacy Authentication header. The Bearer prefix is optional.
func ExtractBearer(h http.Header) (string, error) {
	raw := h.Get("Authorization")
	if strings.TrimSpace(raw) == "" {
		raw = h.Get("Authentication")
	}

	token := strings.TrimSpace(bearerPrefix.ReplaceAllString(strings.TrimSpace(raw), ""))
	if token == "" || strings.EqualFold(token, "bearer") {
		return "", errors.NewAuthenticationError("missing authorization token")
	}
	return token, nil
}
