package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Sheets SheetsConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Access AccessConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host            string        `mapstructure:"HOST"`
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	Environment     string        `mapstructure:"ENVIRONMENT"` // development, staging, production
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
}

// SheetsConfig holds Google Sheets row-store configuration. Each logical
// table lives in its own spreadsheet, identified by the spreadsheet key.
type SheetsConfig struct {
	CredentialsFile string        `mapstructure:"CREDENTIALS_FILE"` // service account JSON key file
	CredentialsJSON string        `mapstructure:"CREDENTIALS_JSON"` // inline JSON, takes precedence
	UsersSheetID    string        `mapstructure:"USERS_SHEET_ID"`
	ProjectsSheetID string        `mapstructure:"PROJECTS_SHEET_ID"`
	TasksSheetID    string        `mapstructure:"TASKS_SHEET_ID"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
	CallInterval    time.Duration `mapstructure:"CALL_INTERVAL"`
	AppendRetries   int           `mapstructure:"APPEND_RETRIES"`
}

// Credentials returns the service account key material, reading the key file
// when no inline JSON is configured.
func (c *SheetsConfig) Credentials() ([]byte, error) {
	if c.CredentialsJSON != "" {
		return []byte(c.CredentialsJSON), nil
	}
	if c.CredentialsFile == "" {
		return nil, fmt.Errorf("no sheets credentials configured")
	}
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}

// RedisConfig holds Redis configuration for the optional read cache
type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     int    `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

// Address returns the Redis address
func (c *RedisConfig) Address() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a redis cache backend is configured at all
func (c *RedisConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes int    `mapstructure:"JWT_EXPIRY_MINUTES"`
}

// JWTExpiry returns the JWT expiry duration
func (c *AuthConfig) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// AccessConfig holds the fixed allow-lists. Loaded once at startup and never
// mutated; the auth gate receives them explicitly.
type AccessConfig struct {
	AllowedDomains []string `mapstructure:"ALLOWED_DOMAINS"`
	AdminEmails    []string `mapstructure:"ADMIN_EMAILS"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file from current dir or parent dirs (for running from cmd/)
	loadEnvFile()

	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Try to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/workalloc/")

	// Ignore error if config file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// overrideFromEnv reads common environment variables and overrides config values
func overrideFromEnv(config *Config) {
	// Sheets
	if val := os.Getenv("SHEETS_CREDENTIALS_FILE"); val != "" {
		config.Sheets.CredentialsFile = val
	}
	if val := os.Getenv("SHEETS_CREDENTIALS_JSON"); val != "" {
		config.Sheets.CredentialsJSON = val
	}
	if val := os.Getenv("USERS_SHEET_ID"); val != "" {
		config.Sheets.UsersSheetID = val
	}
	if val := os.Getenv("PROJECTS_SHEET_ID"); val != "" {
		config.Sheets.ProjectsSheetID = val
	}
	if val := os.Getenv("TASKS_SHEET_ID"); val != "" {
		config.Sheets.TasksSheetID = val
	}

	// Redis
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}

	// Auth
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if val := os.Getenv("JWT_EXPIRY_MINUTES"); val != "" {
		if minutes, err := strconv.Atoi(val); err == nil {
			config.Auth.JWTExpiryMinutes = minutes
		}
	}
	if config.Auth.JWTExpiryMinutes == 0 {
		config.Auth.JWTExpiryMinutes = 720
	}

	// Allow-lists as comma-separated env overrides
	if val := os.Getenv("ALLOWED_DOMAINS"); val != "" {
		config.Access.AllowedDomains = splitList(val)
	}
	if val := os.Getenv("ADMIN_EMAILS"); val != "" {
		config.Access.AdminEmails = splitList(val)
	}

	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.Server.AllowedOrigins = origins
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	// Keys must spell out the mapstructure tags: "Sheets.CacheTTL" would land
	// on viper key sheets.cachettl, which Unmarshal never matches against the
	// CACHE_TTL tag, and the default would silently vanish.

	// Server defaults
	v.SetDefault("Server.HOST", "0.0.0.0")
	v.SetDefault("Server.PORT", 8080)
	v.SetDefault("Server.SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("Server.ENVIRONMENT", "development")
	v.SetDefault("Server.ALLOWED_ORIGINS", "https://workalloc.childhelpfoundationindia.org")

	// Sheets defaults: pacing and caching match the quotas the deployed sheets
	// have been tuned for.
	v.SetDefault("Sheets.CACHE_TTL", 60*time.Second)
	v.SetDefault("Sheets.CALL_INTERVAL", 1200*time.Millisecond)
	v.SetDefault("Sheets.APPEND_RETRIES", 5)

	// Redis defaults
	v.SetDefault("Redis.REDIS_PORT", 6379)
	v.SetDefault("Redis.REDIS_DB", 0)

	// Auth defaults
	v.SetDefault("Auth.JWT_EXPIRY_MINUTES", 720)

	// Allow-lists default to the deployed foundation setup
	v.SetDefault("Access.ALLOWED_DOMAINS", []string{
		"childhelpfoundationindia.org",
		"tigeranalytics.com",
		"skypathdigital.com",
	})
	v.SetDefault("Access.ADMIN_EMAILS", []string{
		"digital@childhelpfoundationindia.org",
		"rajendra.pathak@childhelpfoundationindia.org",
		"jiji.john@childhelpfoundationindia.org",
		"webteam@childhelpfoundationindia.org",
	})
}

func validate(config *Config) error {
	if config.Server.Environment == "production" {
		if config.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if config.Sheets.CredentialsFile == "" && config.Sheets.CredentialsJSON == "" {
			return fmt.Errorf("sheets credentials are required in production")
		}
	}
	if len(config.Access.AllowedDomains) == 0 {
		return fmt.Errorf("ALLOWED_DOMAINS must not be empty")
	}
	return nil
}

// loadEnvFile attempts to load .env file from current directory or parent directories
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
