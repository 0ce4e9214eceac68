package cognito

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vector-pai/pkg/errors"
)

type fakeAPI struct {
	input *cip.InitiateAuthInput
	out   *cip.InitiateAuthOutput
	err   error
}

func (f *fakeAPI) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.input = in
	return f.out, f.err
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return tokens and send the secret hash", func(t *testing.T) {
		api := &fakeAPI{out: &cip.InitiateAuthOutput{AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("at"),
			IdToken:      aws.String("it"),
			RefreshToken: aws.String("rt"),
			ExpiresIn:    3600,
		}}}
		c := NewClient(api, "client-1", "s3cret", zap.NewNop())

		result, err := c.Login(ctx, "ana@example.com", "pw")

		require.NoError(t, err)
		assert.Equal(t, "at", result.AccessToken)
		assert.Equal(t, "it", result.IDToken)
		assert.Equal(t, "rt", result.RefreshToken)
		assert.Equal(t, int32(3600), result.ExpiresIn)
		assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, api.input.AuthFlow)
		assert.Equal(t, "client-1", aws.ToString(api.input.ClientId))
		assert.Equal(t, SecretHash("s3cret", "ana@example.com", "client-1"), api.input.AuthParameters["SECRET_HASH"])
	})

	t.Run("Should omit the secret hash without a client secret", func(t *testing.T) {
		api := &fakeAPI{out: &cip.InitiateAuthOutput{AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("at")}}}
		c := NewClient(api, "client-1", "", zap.NewNop())

		_, err := c.Login(ctx, "ana@example.com", "pw")

		require.NoError(t, err)
		assert.NotContains(t, api.input.AuthParameters, "SECRET_HASH")
	})

	t.Run("Should fail on a challenge without tokens", func(t *testing.T) {
		api := &fakeAPI{out: &cip.InitiateAuthOutput{ChallengeName: types.ChallengeNameTypeNewPasswordRequired}}
		c := NewClient(api, "client-1", "", zap.NewNop())

		_, err := c.Login(ctx, "ana@example.com", "pw")

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, errors.GetAppError(err).HTTPStatus)
	})

	statuses := []struct {
		code string
		want int
	}{
		{"NotAuthorizedException", http.StatusUnauthorized},
		{"UserNotFoundException", http.StatusNotFound},
		{"UserNotConfirmedException", http.StatusForbidden},
		{"InvalidParameterException", http.StatusBadRequest},
		{"TooManyRequestsException", http.StatusTooManyRequests},
		{"InternalErrorException", http.StatusInternalServerError},
	}
	for _, tt := range statuses {
		t.Run("Should map "+tt.code, func(t *testing.T) {
			api := &fakeAPI{err: &smithy.GenericAPIError{Code: tt.code, Message: "boom"}}
			c := NewClient(api, "client-1", "", zap.NewNop())

			_, err := c.Login(ctx, "ana@example.com", "pw")

			require.Error(t, err)
			assert.Equal(t, tt.want, errors.GetAppError(err).HTTPStatus)
		})
	}

	t.Run("Should map transport errors to internal", func(t *testing.T) {
		c := NewClient(&fakeAPI{err: stderrors.New("dial tcp")}, "client-1", "", zap.NewNop())

		_, err := c.Login(ctx, "ana@example.com", "pw")

		assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
	})
}

func TestSecretHash(t *testing.T) {
	// echo -n "userclient" | openssl dgst -sha256 -hmac secret -binary | base64
	assert.Equal(t, "wvW87lzZoI+qQCVGmWVBJLlucdJ65huAVP1z+0MgA6E=", SecretHash("secret", "user", "client"))
}
