package services

import (
	"context"

	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/pkg/errors"
)

// EmailService sends sanitized email from the configured source address
type EmailService struct {
	mailer ports.Mailer
	from   string
	logger *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(mailer ports.Mailer, from string, logger *zap.Logger) *EmailService {
	return &EmailService{mailer: mailer, from: from, logger: logger}
}

// SendResult is returned after the email service accepted a message
type SendResult struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
}

// Send hands req to the mailer. Mailer failures are reported as external errors.
func (s *EmailService) Send(ctx context.Context, req entities.EmailRequest) (*SendResult, error) {
	id, err := s.mailer.Send(ctx, ports.Email{
		From:     s.from,
		To:       req.To,
		Subject:  req.Subject,
		HTMLBody: req.BodyHTML,
	})
	if err != nil {
		s.logger.Error("Failed to send email",
			zap.Int("recipients", len(req.To)),
			zap.Error(err),
		)
		if appErr := errors.GetAppError(err); appErr != nil {
			return nil, appErr
		}
		return nil, errors.NewExternalError("email", err)
	}

	s.logger.Info("Email sent",
		zap.String("message_id", id),
		zap.Int("recipients", len(req.To)),
	)
	return &SendResult{Status: "sent", MessageID: id}, nil
}

// LoginService exchanges user credentials for tokens
type LoginService struct {
	provider ports.IdentityProvider
	logger   *zap.Logger
}

// NewLoginService creates a new login service
func NewLoginService(provider ports.IdentityProvider, logger *zap.Logger) *LoginService {
	return &LoginService{provider: provider, logger: logger}
}

// Login authenticates req against the identity provider
func (s *LoginService) Login(ctx context.Context, req entities.LoginRequest) (*ports.LoginResult, error) {
	result, err := s.provider.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if result == nil || result.AccessToken == "" {
		s.logger.Error("Login returned no tokens", zap.String("email", req.Email))
		return nil, errors.NewInternalError("authentication did not return tokens")
	}
	return result, nil
}
