package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/application/ports/mocks"
	"vector-pai/application/services"
	"vector-pai/infrastructure/di"
	"vector-pai/interfaces/http/rest"
	"vector-pai/pkg/auth"
)

func run(t *testing.T, load containerLoader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(load)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func failLoader(t *testing.T) containerLoader {
	return func(context.Context) (*di.Container, error) {
		t.Fatal("container should not be loaded")
		return nil, nil
	}
}

func TestTokenCmd(t *testing.T) {
	t.Run("Should mint a token the static validator accepts", func(t *testing.T) {
		out, err := run(t, failLoader(t), "token", "--sub", "sub-9", "--group", "admin", "--secret", "cli-secret")
		require.NoError(t, err)

		validator, err := auth.NewStaticValidator("cli-secret", "")
		require.NoError(t, err)
		claims, err := validator.Validate(context.Background(), strings.TrimSpace(out))

		require.NoError(t, err)
		assert.Equal(t, "sub-9", claims.Subject)
		assert.True(t, claims.IsAdmin())
	})

	t.Run("Should fall back to JWT_SECRET", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "env-secret")

		out, err := run(t, failLoader(t), "token", "--sub", "sub-1")

		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(out))
	})

	t.Run("Should require a secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := run(t, failLoader(t), "token", "--sub", "sub-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret is required")
	})

	t.Run("Should require a subject", func(t *testing.T) {
		_, err := run(t, failLoader(t), "token", "--secret", "x")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})
}

func TestLoginCmd(t *testing.T) {
	t.Run("Should print the issued tokens", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		identity.On("Login", mock.Anything, "ana@example.com", "pw").
			Return(&ports.LoginResult{AccessToken: "a", IDToken: "i", RefreshToken: "r", ExpiresIn: 60}, nil)
		load := func(context.Context) (*di.Container, error) {
			return &di.Container{Services: rest.Services{Login: services.NewLoginService(identity, zap.NewNop())}}, nil
		}

		out, err := run(t, load, "login", "--email", "ana@example.com", "--password", "pw")

		require.NoError(t, err)
		var result ports.LoginResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "a", result.AccessToken)
		identity.AssertExpectations(t)
	})

	t.Run("Should validate the email before loading AWS clients", func(t *testing.T) {
		_, err := run(t, failLoader(t), "login", "--email", "not-an-email", "--password", "pw")

		require.Error(t, err)
	})
}

func TestEmailCmd(t *testing.T) {
	t.Run("Should send through the email service", func(t *testing.T) {
		mailer := &mocks.MockMailer{}
		mailer.On("Send", mock.Anything, mock.MatchedBy(func(e ports.Email) bool {
			return len(e.To) == 2 && e.From == "ops@example.com"
		})).Return("msg-7", nil)
		load := func(context.Context) (*di.Container, error) {
			return &di.Container{Services: rest.Services{Email: services.NewEmailService(mailer, "ops@example.com", zap.NewNop())}}, nil
		}

		out, err := run(t, load, "email", "--to", "a@example.com", "--to", "b@example.com", "--subject", "Hi", "--body", "<p>hola</p>")

		require.NoError(t, err)
		assert.Contains(t, out, "msg-7")
		mailer.AssertExpectations(t)
	})

	t.Run("Should reject an empty body", func(t *testing.T) {
		_, err := run(t, failLoader(t), "email", "--to", "a@example.com", "--subject", "Hi")

		require.Error(t, err)
	})
}
