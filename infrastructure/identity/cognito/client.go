// Package cognito authenticates users against a Cognito user pool app client.
package cognito

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/pkg/errors"
)

// API is the subset of the Cognito user pool API used for login
type API interface {
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

// Client implements ports.IdentityProvider with USER_PASSWORD_AUTH
type Client struct {
	api          API
	clientID     string
	clientSecret string
	logger       *zap.Logger
}

var _ ports.IdentityProvider = (*Client)(nil)

// NewClient creates a login client for the app client clientID. clientSecret
// is empty for app clients without a secret.
func NewClient(api API, clientID, clientSecret string, logger *zap.Logger) *Client {
	return &Client{api: api, clientID: clientID, clientSecret: clientSecret, logger: logger}
}

// Login exchanges a username and password for pool tokens
func (c *Client) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = SecretHash(c.clientSecret, username, c.clientID)
	}

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, classify(err)
	}

	result := out.AuthenticationResult
	if result == nil || aws.ToString(result.AccessToken) == "" {
		c.logger.Error("Cognito returned no tokens",
			zap.String("challenge", string(out.ChallengeName)),
		)
		return nil, errors.NewInternalError("authentication did not return tokens")
	}

	return &ports.LoginResult{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// SecretHash is base64(HMAC-SHA256(secret, username+clientID))
func SecretHash(secret, username, clientID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func classify(err error) error {
	var apiErr smithy.APIError
	if !stderrors.As(err, &apiErr) {
		return errors.NewInternalError("authentication failed").WithCause(err)
	}

	switch apiErr.ErrorCode() {
	case "NotAuthorizedException":
		return errors.NewAuthenticationError("incorrect username or password").WithCause(err)
	case "UserNotFoundException":
		return errors.NewNotFoundError("user").WithCause(err)
	case "UserNotConfirmedException":
		return errors.NewForbiddenError("user is not confirmed").WithCause(err)
	case "InvalidParameterException":
		return errors.NewValidationError(apiErr.ErrorMessage()).WithCause(err)
	case "TooManyRequestsException":
		return errors.NewThrottlingError("too many login attempts").WithCause(err)
	default:
		return errors.NewInternalError("authentication failed").WithCause(err)
	}
}
