package bootstrap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RikVoorhaar/routing-game-sub002/config"
)

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Services: "http",
		Routing:  config.RoutingConfig{BaseURL: "http://localhost:9966"},
	}
	cfg.Sanitize()
	return cfg
}

func TestInitServicesWiresEverything(t *testing.T) {
	container, err := InitServices(ServiceDeps{Config: testConfig()})
	require.NoError(t, err)

	assert.NotNil(t, container.GameStates)
	assert.NotNil(t, container.JobQueries)
	assert.NotNil(t, container.ActiveJobs)
	assert.NotNil(t, container.Completions)
	assert.NotNil(t, container.Purchases)
	assert.NotNil(t, container.RoutePlans)
	assert.Nil(t, container.CacheRepo, "no redis client means no shared cache")
	assert.NotNil(t, container.Metrics)
	assert.False(t, container.Metrics.Enabled(), "metrics are off by default")
}

func TestInitServicesRequiresRoutingBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.Routing.BaseURL = ""

	_, err := InitServices(ServiceDeps{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing")
}

func TestBuildJobGenRunner(t *testing.T) {
	runner, err := BuildJobGenRunner(ServiceDeps{Config: testConfig()})
	require.NoError(t, err)
	assert.NotNil(t, runner)
}

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))

	cfg := testConfig()
	require.NoError(t, ValidateServiceConfig(cfg))

	cfg.Services = "scheduler"
	require.Error(t, ValidateServiceConfig(cfg))
}

func TestGetEnabledServices(t *testing.T) {
	cfg := testConfig()
	cfg.Services = "http,job-generator"

	got := GetEnabledServices(cfg)
	sort.Strings(got)
	assert.Equal(t, []string{"http", "job-generator"}, got)

	assert.Empty(t, GetEnabledServices(nil))
}
