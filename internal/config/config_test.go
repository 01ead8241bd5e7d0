package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded {
		t.Error("missing .env reported as loaded")
	}
	if cfg.Port != "8080" || cfg.JWTTTL != time.Hour || cfg.StorageBackend != BackendJSON {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DataDir != "data" || cfg.UploadDir != "public/uploads" {
		t.Errorf("dirs = %q, %q", cfg.DataDir, cfg.UploadDir)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nJWT_TTL=30m\nCORS_ORIGINS=https://a.example,https://b.example\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set, so make
	// sure these start empty and are cleared afterwards.
	for _, k := range []string{"JWT_SECRET", "JWT_TTL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded {
		t.Error(".env not reported as loaded")
	}
	if cfg.JWTSecret != "from-file" || cfg.JWTTTL != 30*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{JWTSecret: "s", JWTTTL: time.Hour, BcryptCost: 10, StorageBackend: BackendJSON}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"no secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"bad cost", func(c *Config) { c.BcryptCost = 2 }, "BCRYPT_COST"},
		{"mongo without uri", func(c *Config) { c.StorageBackend = BackendMongo }, "MONGO_URI"},
		{"postgres without dsn", func(c *Config) { c.StorageBackend = BackendPostgres }, "POSTGRES_DSN"},
		{"unknown backend", func(c *Config) { c.StorageBackend = "redis" }, "STORAGE_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("err = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
