package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeJobGenerator runs the background job generator.
	ServiceModeJobGenerator ServiceMode = "job-generator"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeJobGenerator,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeJobGenerator:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, job-generator)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// JobGenConfig contains job generator service configuration.
type JobGenConfig struct {
	// Interval is the generator tick interval.
	Interval time.Duration `env:"JOBGEN_INTERVAL" envDefault:"30s"`

	// BatchSize is the number of jobs to generate per tick.
	BatchSize int `env:"JOBGEN_BATCH_SIZE" envDefault:"25"`

	// MaxJobAge is the maximum age of an unclaimed job before it is pruned.
	MaxJobAge time.Duration `env:"JOBGEN_MAX_JOB_AGE" envDefault:"1h"`

	// Seed is the deterministic seed for job attribute generation.
	Seed uint64 `env:"JOBGEN_SEED" envDefault:"1"`

	// MaxTier is the highest job tier the generator emits.
	MaxTier int `env:"JOBGEN_MAX_TIER" envDefault:"3"`

	// Region bounds for generated job locations.
	MinLat float64 `env:"JOBGEN_MIN_LAT" envDefault:"51.95"`
	MinLon float64 `env:"JOBGEN_MIN_LON" envDefault:"4.95"`
	MaxLat float64 `env:"JOBGEN_MAX_LAT" envDefault:"52.25"`
	MaxLon float64 `env:"JOBGEN_MAX_LON" envDefault:"5.35"`
}

// Sanitize applies guardrails to job generator configuration values.
func (j *JobGenConfig) Sanitize() {
	if j.Interval < time.Second {
		j.Interval = time.Second
	}
	if j.BatchSize < 1 {
		j.BatchSize = 1
	}
	if j.MaxJobAge < time.Minute {
		j.MaxJobAge = time.Minute
	}
	if j.MaxTier < 1 {
		j.MaxTier = 1
	}
}

// CompletionConfig contains batch completion configuration.
type CompletionConfig struct {
	// MaxConcurrency is the number of concurrent completion workers per batch.
	MaxConcurrency int `env:"COMPLETION_MAX_CONCURRENCY" envDefault:"8"`
}

// Sanitize applies guardrails to completion configuration values.
func (c *CompletionConfig) Sanitize() {
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = 1
	}
	if c.MaxConcurrency > 64 {
		c.MaxConcurrency = 64
	}
}
