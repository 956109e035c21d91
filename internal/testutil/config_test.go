package testutil

import "testing"

var testDBEnvKeys = []string{
	"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME",
}

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to the local test database on 55432", func(t *testing.T) {
		for _, key := range testDBEnvKeys {
			t.Setenv(key, "")
		}

		cfg := DefaultTestDBConfig()
		want := TestDBConfig{
			Host: "localhost", Port: "55432",
			User: "routing", Password: "routing", DBName: "routing",
		}
		if cfg != want {
			t.Errorf("DefaultTestDBConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("respects TEST_DB_* overrides", func(t *testing.T) {
		// CI runs Postgres as a sibling container on the standard port.
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("TEST_DB_USER", "ci")
		t.Setenv("TEST_DB_PASSWORD", "ci-secret")
		t.Setenv("TEST_DB_NAME", "routing_ci")

		cfg := DefaultTestDBConfig()
		want := TestDBConfig{
			Host: "postgres", Port: "5432",
			User: "ci", Password: "ci-secret", DBName: "routing_ci",
		}
		if cfg != want {
			t.Errorf("DefaultTestDBConfig() = %+v, want %+v", cfg, want)
		}
	})
}
