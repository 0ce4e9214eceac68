package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"vector-pai/pkg/errors"
)

// CognitoConfig identifies the user pool whose tokens are accepted
type CognitoConfig struct {
	Region     string
	UserPoolID string
	ClientID   string
	TokenUse   string

	// JWKSURL overrides the key set location derived from the issuer
	JWKSURL string
}

// Issuer is the issuer claim of tokens minted by the pool
func (c CognitoConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// KeySetURL is where the signing keys of the pool are published
func (c CognitoConfig) KeySetURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return c.Issuer() + "/.well-known/jwks.json"
}

// CognitoValidator verifies user pool tokens against the pool's published
// signing keys. The key set is fetched on first use and cached for the life
// of the process; unknown key ids trigger a refetch.
type CognitoValidator struct {
	cfg CognitoConfig

	once     sync.Once
	verifier *oidc.IDTokenVerifier
}

// NewCognitoValidator creates a validator for the configured pool
func NewCognitoValidator(cfg CognitoConfig) (*CognitoValidator, error) {
	if cfg.Region == "" || cfg.UserPoolID == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("cognito region, user pool id and client id are required")
	}
	if cfg.TokenUse == "" {
		cfg.TokenUse = TokenUseAccess
	}
	if cfg.TokenUse != TokenUseAccess && cfg.TokenUse != TokenUseID {
		return nil, fmt.Errorf("unsupported token use %q", cfg.TokenUse)
	}
	return &CognitoValidator{cfg: cfg}, nil
}

// keySetVerifier builds the shared verifier on first use, bound to the
// background context rather than to any request.
func (v *CognitoValidator) keySetVerifier() *oidc.IDTokenVerifier {
	v.once.Do(func() {
		keySet := oidc.NewRemoteKeySet(context.Background(), v.cfg.KeySetURL())
		v.verifier = oidc.NewVerifier(v.cfg.Issuer(), keySet, &oidc.Config{
			// access tokens carry client_id instead of aud; checked below
			SkipClientIDCheck: true,
		})
	})
	return v.verifier
}

// Validate verifies signature, issuer and expiry, then the token use and the
// app client the token was issued to.
func (v *CognitoValidator) Validate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, errors.NewAuthenticationError("missing authorization token")
	}

	idToken, err := v.keySetVerifier().Verify(ctx, token)
	if err != nil {
		var expired *oidc.TokenExpiredError
		if stderrors.As(err, &expired) {
			return nil, errors.NewAuthenticationError("token has expired").WithCause(err)
		}
		return nil, errors.NewAuthenticationError("invalid token").WithCause(err)
	}

	var tc tokenClaims
	if err := idToken.Claims(&tc); err != nil {
		return nil, errors.NewAuthenticationError("invalid token claims").WithCause(err)
	}

	if tc.TokenUse != v.cfg.TokenUse {
		return nil, errors.NewAuthenticationError(fmt.Sprintf("token use must be %q", v.cfg.TokenUse))
	}
	switch tc.TokenUse {
	case TokenUseAccess:
		if tc.ClientID != v.cfg.ClientID {
			return nil, errors.NewAuthenticationError("token was issued to another client")
		}
	case TokenUseID:
		if !containsString(idToken.Audience, v.cfg.ClientID) {
			return nil, errors.NewAuthenticationError("token was issued to another client")
		}
		tc.ClientID = v.cfg.ClientID
	}

	claims := tc.toClaims()
	if claims.Subject == "" {
		return nil, errors.NewAuthenticationError("token has no subject")
	}
	claims.ExpiresAt = idToken.Expiry.UTC()
	return claims, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
