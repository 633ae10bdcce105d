package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "fieldcanvas" {
		t.Errorf("Expected default server name to be 'fieldcanvas', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.MaxDisplayWidth != 900 {
		t.Errorf("Expected default max display width to be 900, got %g", cfg.MaxDisplayWidth)
	}

	if cfg.MaxRenderScale != 2 {
		t.Errorf("Expected default max render scale to be 2, got %g", cfg.MaxRenderScale)
	}

	if cfg.DefaultSignerRole != "Investor" {
		t.Errorf("Expected default signer role to be 'Investor', got '%s'", cfg.DefaultSignerRole)
	}

	if cfg.SignatureStrokeWidth != 4 {
		t.Errorf("Expected default stroke width to be 4, got %g", cfg.SignatureStrokeWidth)
	}

	if cfg.APIBase != "http://localhost:8000" {
		t.Errorf("Expected default API base to be 'http://localhost:8000', got '%s'", cfg.APIBase)
	}

	// Test that document directory is set to current working directory by default
	currentDir, _ := os.Getwd()
	if cfg.DocumentDirectory != currentDir {
		t.Errorf("Expected default document directory to be '%s', got '%s'", currentDir, cfg.DocumentDirectory)
	}
}

func validTestConfig() *Config {
	return &Config{
		Mode:                 "stdio",
		Host:                 "127.0.0.1",
		Port:                 8080,
		DocumentDirectory:    "/tmp/test",
		MaxFileSize:          1024,
		MaxDisplayWidth:      900,
		ViewportWidth:        1280,
		MaxRenderScale:       2,
		DefaultSignerRole:    "Investor",
		SignatureStrokeWidth: 4,
		APIBase:              "http://localhost:8000",
		LogLevel:             "info",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid config - server mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "invalid" },
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 0
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			mutate: func(c *Config) {
				c.Mode = "server"
				c.Port = 70000
			},
			wantErr: true,
		},
		{
			name:    "invalid port ignored in stdio mode",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: false,
		},
		{
			name:    "empty document directory",
			mutate:  func(c *Config) { c.DocumentDirectory = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid max file size",
			mutate:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid max display width",
			mutate:  func(c *Config) { c.MaxDisplayWidth = 0 },
			wantErr: true,
		},
		{
			name:    "invalid viewport width",
			mutate:  func(c *Config) { c.ViewportWidth = -1 },
			wantErr: true,
		},
		{
			name:    "invalid render scale",
			mutate:  func(c *Config) { c.MaxRenderScale = 0 },
			wantErr: true,
		},
		{
			name:    "invalid stroke width",
			mutate:  func(c *Config) { c.SignatureStrokeWidth = 0 },
			wantErr: true,
		},
		{
			name:    "empty API base",
			mutate:  func(c *Config) { c.APIBase = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{
			name:     "debug level",
			logLevel: "debug",
			want:     true,
		},
		{
			name:     "info level",
			logLevel: "info",
			want:     false,
		},
		{
			name:     "warn level",
			logLevel: "warn",
			want:     false,
		},
		{
			name:     "error level",
			logLevel: "error",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:              "server",
		Host:              "localhost",
		Port:              8080,
		DocumentDirectory: "/home/user/documents",
		APIBase:           "http://localhost:8000",
		LogLevel:          "debug",
		MaxFileSize:       1024,
	}

	result := cfg.String()

	// Check that the string contains expected components
	expectedSubstrings := []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"DocumentDirectory: /home/user/documents",
		"APIBase: http://localhost:8000",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	}

	for _, substr := range expectedSubstrings {
		if !contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	// Validation must not create directories; placeholder paths like
	// ${workspaceRoot} are expanded later by the caller.

	tempParent, err := os.MkdirTemp("", "fieldcanvas-parent-*")
	if err != nil {
		t.Fatalf("Failed to create temp parent dir: %v", err)
	}
	defer os.RemoveAll(tempParent)

	// Use a non-existent subdirectory
	nonExistentDir := filepath.Join(tempParent, "non-existent", "documents")

	cfg := validTestConfig()
	cfg.DocumentDirectory = nonExistentDir

	// Validate should NOT create the directory
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() should not fail for non-existent directory, got error: %v", err)
	}

	// Check that directory was NOT created
	if _, err := os.Stat(nonExistentDir); !os.IsNotExist(err) {
		t.Errorf("Directory should NOT have been created: %s", nonExistentDir)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error"}
	invalidLevels := []string{"DEBUG", "INFO", "trace", "fatal", ""}

	// Test valid log levels
	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.LogLevel = level

			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	// Test invalid log levels
	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.LogLevel = level

			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) &&
		(s == substr ||
			s[:len(substr)] == substr ||
			s[len(s)-len(substr):] == substr ||
			containsMiddle(s, substr))
}

func containsMiddle(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestConfigIsServerMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{
			name: "server mode",
			mode: "server",
			want: true,
		},
		{
			name: "stdio mode",
			mode: "stdio",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsServerMode(); got != tt.want {
				t.Errorf("Config.IsServerMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigIsStdioMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{
			name: "stdio mode",
			mode: "stdio",
			want: true,
		},
		{
			name: "server mode",
			mode: "server",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsStdioMode(); got != tt.want {
				t.Errorf("Config.IsStdioMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
