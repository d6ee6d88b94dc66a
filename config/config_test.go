package config

import (
	"reflect"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://league@localhost/league?sslmode=disable")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SCORE_MAJOR_MULTIPLIER", "")
	t.Setenv("ROLLING_WINDOW", "")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.DatabaseDriver != DriverPostgres || cfg.ServerPort != 8080 {
		t.Errorf("driver %q port %d", cfg.DatabaseDriver, cfg.ServerPort)
	}
	if cfg.ScoreMajorMultiplier != 100 || cfg.RollingWindow != 20 || cfg.BaselineRank != 10 {
		t.Errorf("scoring defaults = %v/%d/%d", cfg.ScoreMajorMultiplier, cfg.RollingWindow, cfg.BaselineRank)
	}
	if cfg.DSN() != "postgres://league@localhost/league?sslmode=disable" {
		t.Errorf("DSN = %q", cfg.DSN())
	}
}

func TestFromEnvSQLite(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverSQLite)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", "/tmp/league.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}
	if cfg.DSN() != "/tmp/league.db" {
		t.Errorf("DSN = %q", cfg.DSN())
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("origins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing postgres url", map[string]string{"DATABASE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"DATABASE_DRIVER": "mysql"}},
		{"port out of range", map[string]string{"DATABASE_DRIVER": "sqlite3", "SERVER_PORT": "70000"}},
		{"port not a number", map[string]string{"DATABASE_DRIVER": "sqlite3", "SERVER_PORT": "http"}},
		{"zero floor", map[string]string{"DATABASE_DRIVER": "sqlite3", "SCORE_FLOOR": "0"}},
		{"bad window", map[string]string{"DATABASE_DRIVER": "sqlite3", "ROLLING_WINDOW": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := fromEnv(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
