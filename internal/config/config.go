package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Parser ParserConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
	Redis  RedisConfig
}

// EmailConfig holds decision notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig holds analysis cache settings.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ParserProviderConfig holds settings for a single LLM extraction provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds field extraction settings. Secondary is optional.
type ParserConfig struct {
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const envPrefix = "LOANLENS"

// Load reads configuration from environment variables with the LOANLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]any{
		"server.port":          ":8080",
		"server.read_timeout":  "15s",
		"server.write_timeout": "30s",
		"server.environment":   "development",

		"db.host":     "localhost",
		"db.port":     5432,
		"db.user":     "loanlens",
		"db.password": "loanlens_secret",
		"db.name":     "loanlens_db",
		"db.sslmode":  "disable",
		"db.max_open": 25,
		"db.max_idle": 10,

		"jwt.secret":         "change-me-in-production",
		"jwt.access_expiry":  "15m",
		"jwt.refresh_expiry": "168h",
		"jwt.issuer":         "loanlens",

		"s3.region":           "us-east-1",
		"s3.bucket":           "loanlens-documents",
		"s3.endpoint":         "",
		"s3.access_key":       "",
		"s3.secret_key":       "",
		"s3.max_file_size_mb": 25,
		"s3.presign_expiry":   900,

		"log.level":  "debug",
		"log.format": "console",

		"cors.allowed_origins": "http://localhost:3000,http://127.0.0.1:3000",

		"queue.poll_interval_secs": 5,
		"queue.max_retries":        3,
		"queue.concurrency":        4,

		"email.provider":     "noop",
		"email.region":       "us-east-1",
		"email.from_address": "underwriting@loanlens.local",
		"email.from_name":    "LoanLens Underwriting",
		"email.frontend_url": "http://localhost:3000",

		"redis.enabled":  false,
		"redis.address":  "localhost:6379",
		"redis.password": "",
		"redis.db":       0,
		"redis.ttl":      "24h",

		"parser.primary.provider":        "gemini",
		"parser.primary.api_key":         "",
		"parser.primary.default_model":   "gemini-1.5-flash",
		"parser.primary.base_url":        "",
		"parser.primary.timeout_secs":    120,
		"parser.secondary.provider":      "",
		"parser.secondary.api_key":       "",
		"parser.secondary.default_model": "",
		"parser.secondary.base_url":      "",
		"parser.secondary.timeout_secs":  120,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
		// Nested keys are not picked up by AutomaticEnv without an explicit binding.
		_ = v.BindEnv(key, envName(key))
	}

	cfg := &Config{}

	// Hosting platforms set PORT; honor it unless LOANLENS_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envName("server.port")) == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Address:  v.GetString("redis.address"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		TTL:      v.GetDuration("redis.ttl"),
	}
	cfg.Parser = ParserConfig{
		Primary:   providerConfig(v, "parser.primary"),
		Secondary: providerConfig(v, "parser.secondary"),
	}

	if cfg.Server.Environment == "production" && cfg.JWT.Secret == "change-me-in-production" {
		return nil, fmt.Errorf("config.Load: %s must be set in production", envName("jwt.secret"))
	}
	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
