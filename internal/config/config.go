package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Data           DataConfig           `mapstructure:"data"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Posters        PosterConfig         `mapstructure:"posters"`
	Monitoring     MonitoringConfig     `mapstructure:"monitoring"`
	Security       SecurityConfig       `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DataConfig locates the static datasets loaded at startup.
type DataConfig struct {
	Source         string `mapstructure:"source"` // file or postgres
	HollywoodItems string `mapstructure:"hollywood_items"`
	BollywoodItems string `mapstructure:"bollywood_items"`
	Ratings        string `mapstructure:"ratings"`
	Similarity     string `mapstructure:"similarity"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RecommendationConfig struct {
	Neighbors    int    `mapstructure:"neighbors"`
	DefaultCount int    `mapstructure:"default_count"`
	MaxCount     int    `mapstructure:"max_count"`
	SourceTag    string `mapstructure:"source_tag"`
}

type PosterConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	ImageBase string        `mapstructure:"image_base"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "development")

	// Dataset defaults
	v.SetDefault("data.source", "file")
	v.SetDefault("data.hollywood_items", "./data/raw/u.item")
	v.SetDefault("data.bollywood_items", "./data/bollywood_movies_imdb.csv")
	v.SetDefault("data.ratings", "./data/raw/u.data")
	v.SetDefault("data.similarity", "./models/user_similarity.csv")

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_idle_time", "15m")
	v.SetDefault("database.max_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "10s")

	// Redis defaults, empty url disables the poster cache
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout", "2s")

	// Auth defaults, empty secret disables auth
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Recommendation defaults
	v.SetDefault("recommendation.neighbors", 5)
	v.SetDefault("recommendation.default_count", 5)
	v.SetDefault("recommendation.max_count", 10)
	v.SetDefault("recommendation.source_tag", "IMDb")

	// Poster lookup defaults
	v.SetDefault("posters.enabled", true)
	v.SetDefault("posters.api_key", "")
	v.SetDefault("posters.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("posters.image_base", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("posters.timeout", "5s")
	v.SetDefault("posters.cache_ttl", "24h")
	v.SetDefault("posters.rate_limit", 20.0)
	v.SetDefault("posters.burst", 10)
	v.SetDefault("posters.breaker.failure_threshold", 5)
	v.SetDefault("posters.breaker.open_timeout", "30s")

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})
}
