package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAddress     = "0.0.0.0"
	DefaultPort        = 8501
	DefaultPolicyDir   = "policies"
	DefaultHistoryPath = "data/history.db"
	// DefaultSecretsFile matches the layout of Streamlit secrets so an
	// existing deployment's secrets file can be reused as is.
	DefaultSecretsFile = ".streamlit/secrets.toml"
)

// Environment variable names.
const (
	EnvGoogleAPIKey        = "GOOGLE_API_KEY"
	EnvAzureOpenAIKey      = "AZURE_OPENAI_KEY"
	EnvAzureOpenAIEndpoint = "AZURE_OPENAI_ENDPOINT"
	EnvAzureDeploymentID   = "AZURE_OPENAI_DEPLOYMENT_ID"
)

// Config holds every runtime setting of the assistant.
type Config struct {
	// HTTP server
	Address     string   `env:"NETCONFIG_ADDRESS"`
	Port        int      `env:"NETCONFIG_PORT"`
	CORSOrigins []string `env:"NETCONFIG_CORS_ORIGINS"`

	// LLM
	Provider        string        `env:"NETCONFIG_PROVIDER"`
	GoogleAPIKey    string        `env:"GOOGLE_API_KEY"`
	GeminiModel     string        `env:"NETCONFIG_GEMINI_MODEL"`
	GeminiBaseURL   string        `env:"NETCONFIG_GEMINI_BASE_URL"`
	AzureAPIKey     string        `env:"AZURE_OPENAI_KEY"`
	AzureEndpoint   string        `env:"AZURE_OPENAI_ENDPOINT"`
	AzureDeployment string        `env:"AZURE_OPENAI_DEPLOYMENT_ID"`
	Temperature     float32       `env:"NETCONFIG_TEMPERATURE"`
	MaxOutputTokens int32         `env:"NETCONFIG_MAX_OUTPUT_TOKENS"`
	RequestTimeout  time.Duration `env:"NETCONFIG_REQUEST_TIMEOUT"`
	RetryMax        int           `env:"NETCONFIG_RETRY_MAX"`

	// Policies and history
	PolicyDir      string `env:"NETCONFIG_POLICY_DIR"`
	HistoryEnabled bool   `env:"NETCONFIG_HISTORY_ENABLED"`
	HistoryPath    string `env:"NETCONFIG_HISTORY_PATH"`

	// Observability
	LogLevel       string `env:"NETCONFIG_LOG_LEVEL"`
	LogFormat      string `env:"NETCONFIG_LOG_FORMAT"`
	MetricsEnabled bool   `env:"NETCONFIG_METRICS_ENABLED"`
	TracingEnabled bool   `env:"NETCONFIG_TRACING_ENABLED"`

	// Service identification
	ServiceName    string `env:"NETCONFIG_SERVICE_NAME"`
	ServiceVersion string `env:"NETCONFIG_SERVICE_VERSION"`
}

// Load builds a Config from defaults, the optional .env file, the process
// environment and finally the optional secrets file. Values in the secrets
// file take precedence over the environment.
func Load(envFile, secretsFile string) (*Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if secretsFile != "" {
		if err := loadSecrets(cfg, secretsFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Address:         DefaultAddress,
		Port:            DefaultPort,
		CORSOrigins:     []string{"*"},
		Provider:        "gemini",
		GeminiModel:     "gemini-2.0-flash-lite",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		Temperature:     0.5,
		MaxOutputTokens: 1024,
		RequestTimeout:  60 * time.Second,
		RetryMax:        2,
		PolicyDir:       DefaultPolicyDir,
		HistoryEnabled:  true,
		HistoryPath:     DefaultHistoryPath,
		LogLevel:        "info",
		LogFormat:       "console",
		MetricsEnabled:  true,
		TracingEnabled:  false,
		ServiceName:     "netconfig-assist",
		ServiceVersion:  "dev",
	}
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("NETCONFIG_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("NETCONFIG_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := os.Getenv("NETCONFIG_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("NETCONFIG_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(EnvGoogleAPIKey); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := os.Getenv("NETCONFIG_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("NETCONFIG_GEMINI_BASE_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}
	if v := os.Getenv(EnvAzureOpenAIKey); v != "" {
		cfg.AzureAPIKey = v
	}
	if v := os.Getenv(EnvAzureOpenAIEndpoint); v != "" {
		cfg.AzureEndpoint = v
	}
	if v := os.Getenv(EnvAzureDeploymentID); v != "" {
		cfg.AzureDeployment = v
	}
	if v := os.Getenv("NETCONFIG_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("NETCONFIG_TEMPERATURE: %w", err)
		}
		cfg.Temperature = float32(f)
	}
	if v := os.Getenv("NETCONFIG_MAX_OUTPUT_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("NETCONFIG_MAX_OUTPUT_TOKENS: %w", err)
		}
		cfg.MaxOutputTokens = int32(n)
	}
	if v := os.Getenv("NETCONFIG_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("NETCONFIG_RETRY_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_RETRY_MAX: %w", err)
		}
		cfg.RetryMax = n
	}
	if v := os.Getenv("NETCONFIG_POLICY_DIR"); v != "" {
		cfg.PolicyDir = v
	}
	if v := os.Getenv("NETCONFIG_HISTORY_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_HISTORY_ENABLED: %w", err)
		}
		cfg.HistoryEnabled = b
	}
	if v := os.Getenv("NETCONFIG_HISTORY_PATH"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("NETCONFIG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("NETCONFIG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("NETCONFIG_METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = b
	}
	if v := os.Getenv("NETCONFIG_TRACING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NETCONFIG_TRACING_ENABLED: %w", err)
		}
		cfg.TracingEnabled = b
	}
	if v := os.Getenv("NETCONFIG_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("NETCONFIG_SERVICE_VERSION"); v != "" {
		cfg.ServiceVersion = v
	}
	return nil
}

// loadSecrets reads API keys from a TOML secrets file. A missing file is
// not an error.
func loadSecrets(cfg *Config, path string) error {
	var secrets map[string]interface{}
	if _, err := toml.DecodeFile(path, &secrets); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	str := func(key string) string {
		if v, ok := secrets[key].(string); ok {
			return v
		}
		return ""
	}
	if v := str(EnvGoogleAPIKey); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := str(EnvAzureOpenAIKey); v != "" {
		cfg.AzureAPIKey = v
	}
	if v := str(EnvAzureOpenAIEndpoint); v != "" {
		cfg.AzureEndpoint = v
	}
	if v := str(EnvAzureDeploymentID); v != "" {
		cfg.AzureDeployment = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the configuration for values the service cannot run with.
// Missing API keys are not rejected here: the UI reports them per request.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Provider {
	case "gemini", "azure":
	default:
		return fmt.Errorf("provider must be one of: gemini, azure")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("max_output_tokens must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative")
	}
	if c.HistoryEnabled && c.HistoryPath == "" {
		return fmt.Errorf("history_path is required when history is enabled")
	}
	validLogLevels := []string{"debug", "info", "warn", "error"}
	valid := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be one of: console, json")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

// PolicyDirOptional reports whether a missing policy directory may be
// ignored, which is only the case for the default location.
func (c *Config) PolicyDirOptional() bool {
	return c.PolicyDir == DefaultPolicyDir
}
