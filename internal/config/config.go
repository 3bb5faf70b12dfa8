package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:",squash"`
	Dataset  DatasetConfig  `mapstructure:",squash"`
	Logger   LoggerConfig   `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
	Report   ReportConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"server_host"`
	Port            int           `mapstructure:"server_port"`
	ReadTimeout     time.Duration `mapstructure:"server_read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"server_write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"server_idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"server_shutdown_timeout"`
}

type DatasetConfig struct {
	CSVFile string `mapstructure:"csv_file"`
	// DateLayouts are tried in order for the Date column.
	DateLayouts []string `mapstructure:"date_layouts"`
	// ReloadInterval of zero disables the background reload job.
	ReloadInterval time.Duration `mapstructure:"reload_interval"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
}

type SecurityConfig struct {
	EnableCSRF      bool     `mapstructure:"security_csrf_enabled"`
	EnableRateLimit bool     `mapstructure:"security_rate_limit_enabled"`
	RateLimitRPS    int      `mapstructure:"security_rate_limit_rps"`
	RateLimitBurst  int      `mapstructure:"security_rate_limit_burst"`
	AllowedOrigins  []string `mapstructure:"security_allowed_origins"`
	TrustedProxies  []string `mapstructure:"security_trusted_proxies"`
}

type ReportConfig struct {
	Locale   string `mapstructure:"report_locale"`
	Currency string `mapstructure:"report_currency"`
}

// EnvFile is read, when present, before the process environment is
// consulted. Variables already set in the environment win.
const EnvFile = ".env"

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", 8084)
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("CSV_FILE", "supermarket_sales.csv")
	v.SetDefault("DATE_LAYOUTS", []string{"1/2/2006", "2006-01-02", "2006-01-02 15:04:05"})
	v.SetDefault("RELOAD_INTERVAL", time.Duration(0))

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SECURITY_CSRF_ENABLED", true)
	v.SetDefault("SECURITY_RATE_LIMIT_ENABLED", true)
	v.SetDefault("SECURITY_RATE_LIMIT_RPS", 100)
	v.SetDefault("SECURITY_RATE_LIMIT_BURST", 10)
	v.SetDefault("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"})
	v.SetDefault("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"})

	v.SetDefault("REPORT_LOCALE", "en")
	v.SetDefault("REPORT_CURRENCY", "R$")
}

func Load() (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// normalize trims list entries so "a, b" and "a,b" mean the same.
func (c *Config) normalize() {
	c.Dataset.DateLayouts = trimAll(c.Dataset.DateLayouts)
	c.Security.AllowedOrigins = trimAll(c.Security.AllowedOrigins)
	c.Security.TrustedProxies = trimAll(c.Security.TrustedProxies)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.CSVFile == "" {
		return fmt.Errorf("CSV file path cannot be empty")
	}

	if len(c.Dataset.DateLayouts) == 0 {
		return fmt.Errorf("at least one date layout is required")
	}

	if c.Dataset.ReloadInterval < 0 {
		return fmt.Errorf("reload interval cannot be negative")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Report.Locale == "" {
		return fmt.Errorf("report locale cannot be empty")
	}

	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
