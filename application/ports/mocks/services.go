package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vector-pai/application/ports"
	"vector-pai/domain/events"
)

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMailer is a mock implementation of ports.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email ports.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

// MockIdentityProvider is a mock implementation of ports.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.LoginResult), args.Error(1)
}

var (
	_ ports.EventPublisher   = (*MockEventPublisher)(nil)
	_ ports.Mailer           = (*MockMailer)(nil)
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
)
