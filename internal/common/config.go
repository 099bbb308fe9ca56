package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Upstream    UpstreamConfig  `toml:"upstream"`
	Auth        AuthConfig      `toml:"auth"`
	Sync        SyncConfig      `toml:"sync"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	WebSocket   WebSocketConfig `toml:"websocket"`
	APIKeys     APIKeysConfig   `toml:"api_keys"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// UpstreamConfig describes the external market intelligence agent service.
// All heavy work (scraping, analysis, report generation) happens there; this
// application only forwards requests and renders what comes back.
type UpstreamConfig struct {
	BaseURL         string `toml:"base_url"`         // e.g. "http://localhost:8000"
	ServiceToken    string `toml:"service_token"`    // Bearer token for authenticated upstream routes
	StatusTimeout   string `toml:"status_timeout"`   // Timeout for health/status-style calls (default: "5s")
	SyncTimeout     string `toml:"sync_timeout"`     // Timeout for agent sync calls (default: "15s")
	DownloadTimeout string `toml:"download_timeout"` // Timeout for report/file downloads (default: "60s")
	RateLimit       string `toml:"rate_limit"`       // Minimum spacing between upstream calls ("" = unlimited)
}

// AuthConfig describes the third-party GoTrue-style auth provider.
// Both fields empty means the provider is not configured and the application
// runs in open single-user mode without attempting any auth network calls.
type AuthConfig struct {
	URL            string `toml:"url"`              // Auth provider base URL
	AnonKey        string `toml:"anon_key"`         // Public API key sent as apikey header
	RequestTimeout string `toml:"request_timeout"`  // Provider call timeout (default: "10s")
	SessionCache   string `toml:"session_cache"`    // How long validated tokens are cached (default: "30s")
}

// SyncConfig controls the data source synchronization cycle
type SyncConfig struct {
	Sources        []string `toml:"sources"`          // Tracked data source identifiers (e.g. "NewsAPI", "GNews")
	MarketDomain   string   `toml:"market_domain"`    // Default market domain for sync triggers
	SyncType       string   `toml:"sync_type"`        // Default sync type ("full" or "incremental")
	PollInterval   string   `toml:"poll_interval"`    // Status poll interval (default: "5s")
	MaxMissedPolls int      `toml:"max_missed_polls"` // Consecutive failed polls before the cycle aborts (default: 3)
}

// SchedulerConfig controls background sync scheduling
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule, e.g. "0 */6 * * *"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// WebSocketConfig contains configuration for WebSocket progress streaming
type WebSocketConfig struct {
	// Throttle interval for high-frequency sync progress events ("" = no throttling)
	ProgressThrottle string `toml:"progress_throttle"`
}

// APIKeysConfig is the bag of third-party API keys forwarded verbatim in
// sync trigger payloads. Assembled once at startup (file + env), immutable
// afterwards. Stored keys from the settings store override these at runtime.
type APIKeysConfig struct {
	NewsAPI               string `toml:"news_api"`
	MediaStack            string `toml:"mediastack"`
	GNews                 string `toml:"gnews"`
	AlphaVantage          string `toml:"alpha_vantage"`
	FinancialModelingPrep string `toml:"financial_modeling_prep"`
	SerpAPI               string `toml:"serpapi"`
	Tavily                string `toml:"tavily"`
}

// Map returns the configured keys as a service-name keyed map, skipping
// empty values so absent keys are omitted from trigger payloads entirely.
func (k *APIKeysConfig) Map() map[string]string {
	keys := map[string]string{
		"news_api":                k.NewsAPI,
		"mediastack":              k.MediaStack,
		"gnews":                   k.GNews,
		"alpha_vantage":           k.AlphaVantage,
		"financial_modeling_prep": k.FinancialModelingPrep,
		"serpapi":                 k.SerpAPI,
		"tavily":                  k.Tavily,
	}
	for name, value := range keys {
		if value == "" {
			delete(keys, name)
		}
	}
	return keys
}

// NewDefaultConfig returns a Config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Upstream: UpstreamConfig{
			BaseURL:         "http://localhost:8000",
			StatusTimeout:   "5s",
			SyncTimeout:     "15s",
			DownloadTimeout: "60s",
		},
		Auth: AuthConfig{
			RequestTimeout: "10s",
			SessionCache:   "30s",
		},
		Sync: SyncConfig{
			Sources:        []string{"NewsAPI", "GNews", "MediaStack", "AlphaVantage"},
			MarketDomain:   "technology",
			SyncType:       "full",
			PollInterval:   "5s",
			MaxMissedPolls: 3,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 */6 * * *",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/marketlens",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		WebSocket: WebSocketConfig{
			ProgressThrottle: "1s",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files, later files
// overriding earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETLENS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MARKETLENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MARKETLENS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Upstream agent service configuration
	if baseURL := os.Getenv("MARKETLENS_UPSTREAM_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if token := os.Getenv("MARKETLENS_UPSTREAM_SERVICE_TOKEN"); token != "" {
		config.Upstream.ServiceToken = token
	}

	// Auth provider configuration
	if authURL := os.Getenv("MARKETLENS_AUTH_URL"); authURL != "" {
		config.Auth.URL = authURL
	}
	if anonKey := os.Getenv("MARKETLENS_AUTH_ANON_KEY"); anonKey != "" {
		config.Auth.AnonKey = anonKey
	}

	// Storage configuration
	if badgerPath := os.Getenv("MARKETLENS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("MARKETLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MARKETLENS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Sync configuration
	if interval := os.Getenv("MARKETLENS_SYNC_POLL_INTERVAL"); interval != "" {
		config.Sync.PollInterval = interval
	}
	if domain := os.Getenv("MARKETLENS_MARKET_DOMAIN"); domain != "" {
		config.Sync.MarketDomain = domain
	}

	// Third-party API keys use their conventional names so deployments can
	// share one environment with the upstream agent service.
	applyKeyEnvOverrides(&config.APIKeys)
}

func applyKeyEnvOverrides(keys *APIKeysConfig) {
	envKeys := map[string]*string{
		"NEWS_API_KEY":                    &keys.NewsAPI,
		"MEDIASTACK_API_KEY":              &keys.MediaStack,
		"GNEWS_API_KEY":                   &keys.GNews,
		"ALPHA_VANTAGE_API_KEY":           &keys.AlphaVantage,
		"FINANCIAL_MODELING_PREP_API_KEY": &keys.FinancialModelingPrep,
		"SERPAPI_API_KEY":                 &keys.SerpAPI,
		"TAVILY_API_KEY":                  &keys.Tavily,
	}
	for name, target := range envKeys {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ValidateSchedule validates a cron schedule expression
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule cannot be empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ParseDurationOr parses a duration string, falling back to a default when
// the value is empty or malformed. Config durations are stored as strings
// so TOML files stay readable ("5s", "1m30s").
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
