package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode and worker configuration
//   - game.go: Routing, reward, and route cache configuration
//   - observability.go: StatsD metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, dev seeding).
	// Set DEV=true or ENVIRONMENT=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http"`

	// Job generator configuration
	JobGen JobGenConfig

	// Routing collaborator configuration
	Routing RoutingConfig

	// Route cache configuration
	RouteCache RouteCacheConfig

	// Batch completion configuration
	Completion CompletionConfig

	// Reward tuning configuration
	Reward RewardConfig

	// StatsD metric emission configuration
	Metrics MetricsConfig `envPrefix:"STATSD_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.JobGen.Sanitize()
	c.Routing.Sanitize()
	c.RouteCache.Sanitize()
	c.Completion.Sanitize()
	c.Reward.Sanitize()
	c.Metrics.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and ENVIRONMENT environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
		c.IsDev = environment == "development" || environment == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsJobGeneratorEnabled returns true if the job generator service is enabled.
func (c *AppConfig) IsJobGeneratorEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeJobGenerator]
}
