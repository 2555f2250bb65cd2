package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable ApplyEnv reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENVIRONMENT", "HOST", "PORT", "ALLOWED_ORIGINS", "SECRET_KEY",
		"ACCESS_TOKEN_EXPIRE_MINUTES", "DATABASE_DRIVER", "DATABASE_URL",
		"REDIS_URL", "DEFAULT_AGENT_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "TRACING_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFile_ReturnsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path == "" {
		t.Fatalf("expected config path")
	}
	if got := cfg.Host(); got != DefaultHost {
		t.Fatalf("cfg.Host() = %q, want %q", got, DefaultHost)
	}
	if got := cfg.Port(); got != DefaultPort {
		t.Fatalf("cfg.Port() = %d, want %d", got, DefaultPort)
	}
	if got := cfg.DatabaseDriver(); got != DefaultDatabaseDriver {
		t.Fatalf("cfg.DatabaseDriver() = %q, want %q", got, DefaultDatabaseDriver)
	}
	if got := cfg.AgentTimeoutSeconds(); got != DefaultAgentTimeoutSeconds {
		t.Fatalf("cfg.AgentTimeoutSeconds() = %d, want %d", got, DefaultAgentTimeoutSeconds)
	}
}

func TestEnsureDefaultConfig_CreatesFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := EnsureDefaultConfig()
	if err != nil {
		t.Fatalf("EnsureDefaultConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist at %s: %v", path, err)
	}

	cfg, gotPath, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if filepath.Clean(gotPath) != filepath.Clean(path) {
		t.Fatalf("Load() path = %s, want %s", gotPath, path)
	}
	if got := cfg.Port(); got != DefaultPort {
		t.Fatalf("cfg.Port() = %d, want %d", got, DefaultPort)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := "server:\n  host: 127.0.0.1\n  port: 9090\n" +
		"database:\n  driver: postgres\n  url: postgres://u:p@db:5432/app\n" +
		"agent:\n  default_timeout_seconds: 12\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Host(); got != "127.0.0.1" {
		t.Fatalf("cfg.Host() = %q, want %q", got, "127.0.0.1")
	}
	if got := cfg.Port(); got != 9090 {
		t.Fatalf("cfg.Port() = %d, want %d", got, 9090)
	}
	if got := cfg.DatabaseDriver(); got != "postgres" {
		t.Fatalf("cfg.DatabaseDriver() = %q, want postgres", got)
	}
	if got := cfg.AgentTimeoutSeconds(); got != 12 {
		t.Fatalf("cfg.AgentTimeoutSeconds() = %d, want 12", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Port(); got != 7070 {
		t.Fatalf("cfg.Port() = %d, want 7070", got)
	}
	if got := cfg.AccessTokenExpireMinutes(); got != 5 {
		t.Fatalf("cfg.AccessTokenExpireMinutes() = %d, want 5", got)
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://admin.example.com" {
		t.Fatalf("cfg.AllowedOrigins() = %v", origins)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PORT", "not-a-number")

	if _, _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid PORT")
	}
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &AppConfig{Environment: ptr("production")}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected production validation error")
	}

	cfg.Security.SecretKey = ptr("s3cr3t")
	cfg.Database.URL = ptr("postgres://u:p@db/app")
	cfg.Database.Driver = ptr("postgres")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := cfg.LogFormat(); got != "json" {
		t.Fatalf("cfg.LogFormat() = %q, want json", got)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &AppConfig{Database: DatabaseConfig{Driver: ptr("oracle")}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
