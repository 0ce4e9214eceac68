//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/infrastructure/config"
	"vector-pai/interfaces/http/rest"
	"vector-pai/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    ports.ItemStore
	Mailer   ports.Mailer
	Identity ports.IdentityProvider
	Services rest.Services
	Router   *rest.Router
	Metrics  *observability.Metrics
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideSESClient,
	ProvideCognitoClient,
	ProvideTracer,
	ProvideMetrics,
	ProvideItemStore,
	ProvideEventPublisher,
	ProvideMailer,
	ProvideIdentityProvider,
	ProvideTokenValidator,
	ProvideRateLimiter,
	ProvideErrorHandler,
	ProvideServiceConfig,
	ProvideServices,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
