package ports

import (
	"context"

	"vector-pai/domain/events"
)

// EventPublisher delivers audit events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// Email is a message ready to be sent; Subject and HTMLBody are already sanitized
type Email struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer sends email through the managed email service
type Mailer interface {
	Send(ctx context.Context, email Email) (messageID string, err error)
}

// LoginResult carries the tokens issued by the identity provider
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
}

// IdentityProvider authenticates users by username and password
type IdentityProvider interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
