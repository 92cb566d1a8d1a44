package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Logger    LoggerConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	CSVFile   string
	ImageFile string
	CacheDir  string
}

// DashboardConfig holds what the page shows. The target year and category
// limit were constants in the first version of the dashboard.
type DashboardConfig struct {
	TargetYear    int
	TopCategories int
	Caption       string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", 8084)
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("CSV_FILE", "dashboard/all_data.csv")
	v.SetDefault("IMAGE_FILE", "data/persebaran_pelanggan.png")
	v.SetDefault("CACHE_DIR", ".cache")

	v.SetDefault("TARGET_YEAR", 2018)
	v.SetDefault("TOP_CATEGORIES", 5)
	v.SetDefault("DASHBOARD_CAPTION", "Copyright (c) Azis 2023")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SECURITY_RATE_LIMIT_ENABLED", true)
	v.SetDefault("SECURITY_RATE_LIMIT_RPS", 100)
	v.SetDefault("SECURITY_RATE_LIMIT_BURST", 10)
	v.SetDefault("SECURITY_ALLOWED_ORIGINS", "http://localhost:8084")
	v.SetDefault("SECURITY_TRUSTED_PROXIES", "127.0.0.1")
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Data: DataConfig{
			CSVFile:   v.GetString("CSV_FILE"),
			ImageFile: v.GetString("IMAGE_FILE"),
			CacheDir:  v.GetString("CACHE_DIR"),
		},
		Dashboard: DashboardConfig{
			TargetYear:    v.GetInt("TARGET_YEAR"),
			TopCategories: v.GetInt("TOP_CATEGORIES"),
			Caption:       v.GetString("DASHBOARD_CAPTION"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("SECURITY_RATE_LIMIT_ENABLED"),
			RateLimitRPS:    v.GetInt("SECURITY_RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("SECURITY_RATE_LIMIT_BURST"),
			AllowedOrigins:  splitList(v.GetString("SECURITY_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("SECURITY_TRUSTED_PROXIES")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
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

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}

	if c.Data.CSVFile == "" {
		return fmt.Errorf("CSV file path cannot be empty")
	}

	if c.Data.ImageFile == "" {
		return fmt.Errorf("image file path cannot be empty")
	}

	if c.Dashboard.TargetYear < 1900 || c.Dashboard.TargetYear > 9999 {
		return fmt.Errorf("target year must be between 1900 and 9999, got %d", c.Dashboard.TargetYear)
	}

	if c.Dashboard.TopCategories <= 0 {
		return fmt.Errorf("top categories must be positive")
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

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
