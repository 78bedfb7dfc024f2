package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.AppPort)
	}
	if cfg.StoreDriver != "badger" {
		t.Errorf("expected default driver badger, got %s", cfg.StoreDriver)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("expected default read timeout 5s, got %v", cfg.ReadTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if cfg.AppPort != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.AppPort)
	}
	if cfg.StoreDriver != "redis" {
		t.Errorf("expected redis driver, got %s", cfg.StoreDriver)
	}
}

func TestValidateDriverRequirements(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory_ok", Config{StoreDriver: "memory"}, false},
		{"badger_needs_path", Config{StoreDriver: "badger"}, true},
		{"badger_with_path", Config{StoreDriver: "badger", BadgerPath: "/tmp/x"}, false},
		{"redis_needs_url", Config{StoreDriver: "redis"}, true},
		{"postgres_needs_url", Config{StoreDriver: "postgres"}, true},
		{"unknown_driver", Config{StoreDriver: "sqlite"}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}
