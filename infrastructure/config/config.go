package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	AWSEndpoint   string `yaml:"aws_endpoint"`
	DynamoDBTable string `yaml:"table_name"`
	StageName     string `yaml:"stage_name"`
	EventBusName  string `yaml:"event_bus_name"`

	// Cognito
	CognitoUserPoolID   string `yaml:"cognito_user_pool_id"`
	CognitoClientID     string `yaml:"cognito_client_id"`
	CognitoClientSecret string `yaml:"cognito_client_secret"`
	CognitoRegion       string `yaml:"cognito_region"`
	TokenUse            string `yaml:"token_use"`

	// Static tokens for local development
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Email
	SESSourceEmail string `yaml:"ses_source_email"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Rate limiting
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	// Feature flags
	EnableMetrics    bool   `yaml:"enable_metrics"`
	EnableTracing    bool   `yaml:"enable_tracing"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

func defaults() *Config {
	return &Config{
		ServerAddress:    ":8080",
		Environment:      "production",
		AWSRegion:        "us-east-1",
		StageName:        "dev",
		TokenUse:         "access",
		SESSourceEmail:   "vectordigital@vector.com.mx",
		LogLevel:         "info",
		RateLimitRPS:     20,
		RateLimitBurst:   40,
		MetricsNamespace: "VectorPAI",
	}
}

// LoadConfig loads configuration from an optional YAML file named by
// CONFIG_FILE, then applies environment variables on top
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.AWSEndpoint = getEnv("AWS_ENDPOINT_URL", c.AWSEndpoint)
	c.DynamoDBTable = getEnv("TABLE_NAME", c.DynamoDBTable)
	c.StageName = getEnv("STATE_NAME", c.StageName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.CognitoUserPoolID = getEnv("COGNITO_USER_POOL_ID", c.CognitoUserPoolID)
	c.CognitoClientID = getEnv("COGNITO_CLIENT_ID", c.CognitoClientID)
	c.CognitoClientSecret = getEnv("COGNITO_CLIENT_SECRET", c.CognitoClientSecret)
	c.CognitoRegion = getEnv("COGNITO_REGION", c.CognitoRegion)
	if c.CognitoRegion == "" {
		c.CognitoRegion = c.AWSRegion
	}
	c.TokenUse = getEnv("TOKEN_USE", c.TokenUse)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.SESSourceEmail = getEnv("SES_SOURCE_EMAIL", c.SESSourceEmail)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	if !c.UsesCognito() && c.JWTSecret == "" {
		return fmt.Errorf("either COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID or JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWTSecret != "" {
		return fmt.Errorf("JWT_SECRET must not be set in production")
	}
	if c.IsProduction() && !c.UsesCognito() {
		return fmt.Errorf("COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID are required in production")
	}
	if c.TokenUse != "access" && c.TokenUse != "id" {
		return fmt.Errorf("TOKEN_USE must be access or id, got %q", c.TokenUse)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// UsesCognito reports whether tokens are verified against a Cognito user pool
func (c *Config) UsesCognito() bool {
	return c.CognitoUserPoolID != "" && c.CognitoClientID != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
