package config

import "strings"

// MetricsConfig holds StatsD metric emission settings. Emission is off by
// default; enabling it without an address keeps the client disabled.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:""`
	Prefix  string `env:"PREFIX"  envDefault:"routingd"`
}

// Sanitize applies guardrails to metrics configuration.
func (c *MetricsConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	c.Prefix = strings.TrimSpace(c.Prefix)
}
