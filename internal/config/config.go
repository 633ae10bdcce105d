package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxFileSize     = 100 * 1024 * 1024 // 100MB
	DefaultAPIBase         = "http://localhost:8000"
	DefaultMaxDisplayWidth = 900.0
	DefaultViewportWidth   = 1280.0
	DefaultMaxRenderScale  = 2.0
	DefaultRole            = "Investor"
	DefaultStrokeWidth     = 4.0
)

// Config holds all configuration for the field designer server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory string
	MaxFileSize       int64 // Maximum PDF file size in bytes

	// Rendering configuration
	MaxDisplayWidth float64 // Rendered page width cap in pixels
	ViewportWidth   float64 // Assumed viewport width for page scaling
	MaxRenderScale  float64 // Upper bound on the render scale factor

	// Designer configuration
	DefaultSignerRole    string  // Role assigned to fields with no signer binding
	SignatureStrokeWidth float64 // Brush width of the signature pad in pixels

	// Backend configuration
	APIBase string // Base URL of the envelope backend

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:                 ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                 DefaultHost,
		Port:                 DefaultPort,
		DocumentDirectory:    currentDir,
		MaxFileSize:          DefaultMaxFileSize,
		MaxDisplayWidth:      DefaultMaxDisplayWidth,
		ViewportWidth:        DefaultViewportWidth,
		MaxRenderScale:       DefaultMaxRenderScale,
		DefaultSignerRole:    DefaultRole,
		SignatureStrokeWidth: DefaultStrokeWidth,
		APIBase:              DefaultAPIBase,
		Version:              "1.0.0",
		ServerName:           "fieldcanvas",
		LogLevel:             DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("FIELDCANVAS")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("maxdisplaywidth", cfg.MaxDisplayWidth)
	viper.SetDefault("viewportwidth", cfg.ViewportWidth)
	viper.SetDefault("maxrenderscale", cfg.MaxRenderScale)
	viper.SetDefault("defaultrole", cfg.DefaultSignerRole)
	viper.SetDefault("strokewidth", cfg.SignatureStrokeWidth)
	viper.SetDefault("apibase", cfg.APIBase)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing PDF documents")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Float64("maxdisplaywidth", cfg.MaxDisplayWidth, "Rendered page width cap in pixels")
	pflag.Float64("viewportwidth", cfg.ViewportWidth, "Viewport width used for page scaling")
	pflag.Float64("maxrenderscale", cfg.MaxRenderScale, "Upper bound on the page render scale")
	pflag.String("defaultrole", cfg.DefaultSignerRole, "Role assigned to fields without a signer binding")
	pflag.Float64("strokewidth", cfg.SignatureStrokeWidth, "Signature pad brush width in pixels")
	pflag.String("apibase", cfg.APIBase, "Base URL of the envelope backend")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("maxdisplaywidth", pflag.Lookup("maxdisplaywidth"))
	_ = viper.BindPFlag("viewportwidth", pflag.Lookup("viewportwidth"))
	_ = viper.BindPFlag("maxrenderscale", pflag.Lookup("maxrenderscale"))
	_ = viper.BindPFlag("defaultrole", pflag.Lookup("defaultrole"))
	_ = viper.BindPFlag("strokewidth", pflag.Lookup("strokewidth"))
	_ = viper.BindPFlag("apibase", pflag.Lookup("apibase"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFieldCanvas - a signature field designer and signing surface for PDF envelopes\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/documents                "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/documents  # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_MODE            Server mode\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_HOST            Server host\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_PORT            Server port\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_DIR             Document directory\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_LOGLEVEL        Log level\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_MAXFILESIZE     Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_MAXDISPLAYWIDTH Rendered page width cap\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_VIEWPORTWIDTH   Viewport width for scaling\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_MAXRENDERSCALE  Render scale cap\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_DEFAULTROLE     Default signer role\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_STROKEWIDTH     Signature brush width\n")
		fmt.Fprintf(os.Stderr, "  FIELDCANVAS_APIBASE         Backend base URL\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.MaxDisplayWidth = viper.GetFloat64("maxdisplaywidth")
	cfg.ViewportWidth = viper.GetFloat64("viewportwidth")
	cfg.MaxRenderScale = viper.GetFloat64("maxrenderscale")
	cfg.DefaultSignerRole = viper.GetString("defaultrole")
	cfg.SignatureStrokeWidth = viper.GetFloat64("strokewidth")
	cfg.APIBase = viper.GetString("apibase")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate document directory. Existence is not checked here so that
	// placeholder paths can be expanded later by the caller.
	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate rendering bounds
	if c.MaxDisplayWidth <= 0 {
		return errors.New("maximum display width must be positive")
	}
	if c.ViewportWidth <= 0 {
		return errors.New("viewport width must be positive")
	}
	if c.MaxRenderScale <= 0 {
		return errors.New("maximum render scale must be positive")
	}

	// Validate signature brush
	if c.SignatureStrokeWidth <= 0 {
		return errors.New("signature stroke width must be positive")
	}

	// Validate backend base URL
	if c.APIBase == "" {
		return errors.New("backend base URL cannot be empty")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, APIBase: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.APIBase, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
