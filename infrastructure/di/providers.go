package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vector-pai/application/ports"
	"vector-pai/application/services"
	"vector-pai/infrastructure/config"
	"vector-pai/infrastructure/email/ses"
	"vector-pai/infrastructure/identity/cognito"
	"vector-pai/infrastructure/messaging/eventbridge"
	"vector-pai/infrastructure/persistence/dynamodb"
	"vector-pai/interfaces/http/rest"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/observability"
)

const serviceName = "vector-pai"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("stage", cfg.StageName)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// baseEndpoint returns cfg.AWSEndpoint as a pointer, nil when unset
func baseEndpoint(cfg *config.Config) *string {
	if cfg.AWSEndpoint == "" {
		return nil
	}
	return aws.String(cfg.AWSEndpoint)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		o.BaseEndpoint = baseEndpoint(cfg)
		// Throttling surfaces to the caller as 429.
		o.Retryer = aws.NopRetryer{}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config, cfg *config.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg, func(o *awseventbridge.Options) {
		o.BaseEndpoint = baseEndpoint(cfg)
	})
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config, cfg *config.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg, func(o *awscloudwatch.Options) {
		o.BaseEndpoint = baseEndpoint(cfg)
	})
}

// ProvideSESClient creates an SES v2 client
func ProvideSESClient(awsCfg aws.Config, cfg *config.Config) *sesv2.Client {
	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		o.BaseEndpoint = baseEndpoint(cfg)
	})
}

// ProvideCognitoClient creates a user pool client in the pool's region
func ProvideCognitoClient(awsCfg aws.Config, cfg *config.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg, func(o *awscognito.Options) {
		o.Region = cfg.CognitoRegion
		o.BaseEndpoint = baseEndpoint(cfg)
	})
}

// ProvideTracer creates the X-Ray tracer, nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideMetrics creates the request metrics recorder, nil when disabled or
// when no namespace is configured
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	var namespace string
	if cfg.MetricsNamespace != "" {
		namespace = fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.StageName)
	}
	return observability.NewMetrics(namespace, client, cfg.EnableMetrics, logger)
}

// ProvideItemStore creates the single-table item store
func ProvideItemStore(client *awsdynamodb.Client, cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) ports.ItemStore {
	return dynamodb.NewItemStore(client, cfg.DynamoDBTable, tracer, logger)
}

// ProvideEventPublisher creates the audit publisher. Audit events are
// disabled when no bus is configured.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMailer creates the SES mailer
func ProvideMailer(client *sesv2.Client, logger *zap.Logger) ports.Mailer {
	return ses.NewMailer(client, logger)
}

// ProvideIdentityProvider creates the user pool login client
func ProvideIdentityProvider(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	return cognito.NewClient(client, cfg.CognitoClientID, cfg.CognitoClientSecret, logger)
}

// ProvideTokenValidator verifies user pool tokens, or tokens signed with the
// development secret when no pool is configured
func ProvideTokenValidator(cfg *config.Config) (auth.TokenValidator, error) {
	if cfg.UsesCognito() {
		return auth.NewCognitoValidator(auth.CognitoConfig{
			Region:     cfg.CognitoRegion,
			UserPoolID: cfg.CognitoUserPoolID,
			ClientID:   cfg.CognitoClientID,
			TokenUse:   cfg.TokenUse,
		})
	}
	return auth.NewStaticValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideRateLimiter creates the per-IP limiter; nil allows every request
func ProvideRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

// ProvideErrorHandler creates the shared error handler. Debug details are
// only rendered when ENVIRONMENT=development is set explicitly.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideServiceConfig extracts the settings shared by every entity service
func ProvideServiceConfig(cfg *config.Config) services.Config {
	return services.Config{Stage: cfg.StageName}
}

// ProvideServices creates every application service exposed over HTTP
func ProvideServices(
	store ports.ItemStore,
	publisher ports.EventPublisher,
	mailer ports.Mailer,
	identity ports.IdentityProvider,
	svcCfg services.Config,
	cfg *config.Config,
	logger *zap.Logger,
) rest.Services {
	return rest.Services{
		Groups:        services.NewGroupService(store, publisher, svcCfg, logger),
		Origins:       services.NewOriginService(store, publisher, svcCfg, logger),
		Contracts:     services.NewContractService(store, publisher, svcCfg, logger),
		Cycles:        services.NewCycleService(store, publisher, svcCfg, logger),
		Users:         services.NewUserService(store, publisher, svcCfg, logger),
		UserContracts: services.NewUserContractService(store, publisher, svcCfg, logger),
		Periods:       services.NewPeriodService(store, publisher, svcCfg, logger),
		Login:         services.NewLoginService(identity, logger),
		Email:         services.NewEmailService(mailer, cfg.SESSourceEmail, logger),
	}
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	svc rest.Services,
	validator auth.TokenValidator,
	limiter *auth.IPRateLimiter,
	metrics *observability.Metrics,
	errHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(svc, validator, limiter, metrics, errHandler, logger)
}
