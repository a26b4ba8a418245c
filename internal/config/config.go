package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB (movies and series)
	TMDBToken    string
	TMDBLanguage string

	// Google Books
	GoogleBooksKey      string
	GoogleBooksLanguage string

	// RAWG (games)
	RAWGKey string

	// Wikipedia summaries for games without a description
	WikipediaLanguage string

	// Upstream calls
	UpstreamTimeout   time.Duration
	UpstreamRetries   int
	EnrichConcurrency int
	GenreRefresh      string // cron spec

	// Social
	SocialGraph string // "follow" or "friends"

	// Server
	ServerPort  string
	JWTSecret   string
	CORSOrigins []string
	RateLimit   int // requests per minute per client IP, 0 disables

	// Paths
	DatabaseFile     string // $CONFIG_DIR/mediashelf.db
	TranslationsFile string // $CONFIG_DIR/translations.txt

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Warnings lists settings that are missing but not fatal
func (c *Config) Warnings() []string {
	var warnings []string
	if c.TMDBToken == "" {
		warnings = append(warnings, "TMDB_TOKEN is not set, movie and series lookups will fail")
	}
	if c.GoogleBooksKey == "" {
		warnings = append(warnings, "GOOGLE_BOOKS_KEY is not set, book lookups are anonymous")
	}
	if c.RAWGKey == "" {
		warnings = append(warnings, "RAWG_KEY is not set, game lookups will fail")
	}
	return warnings
}

// Load loads configuration from environment variables and .env file.
// requireSecret is false for commands that never verify tokens.
func Load(requireSecret bool) (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_LANGUAGE", "es-ES")
	viper.SetDefault("GOOGLE_BOOKS_LANGUAGE", "es")
	viper.SetDefault("WIKIPEDIA_LANGUAGE", "es")
	viper.SetDefault("UPSTREAM_TIMEOUT", "8s")
	viper.SetDefault("UPSTREAM_RETRIES", 2)
	viper.SetDefault("ENRICH_CONCURRENCY", 8)
	viper.SetDefault("GENRE_REFRESH", "@every 24h")
	viper.SetDefault("SOCIAL_GRAPH", "follow")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT", 300)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "mediashelf")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBToken:    viper.GetString("TMDB_TOKEN"),
		TMDBLanguage: viper.GetString("TMDB_LANGUAGE"),

		GoogleBooksKey:      viper.GetString("GOOGLE_BOOKS_KEY"),
		GoogleBooksLanguage: viper.GetString("GOOGLE_BOOKS_LANGUAGE"),

		RAWGKey: viper.GetString("RAWG_KEY"),

		WikipediaLanguage: viper.GetString("WIKIPEDIA_LANGUAGE"),

		UpstreamTimeout:   viper.GetDuration("UPSTREAM_TIMEOUT"),
		UpstreamRetries:   viper.GetInt("UPSTREAM_RETRIES"),
		EnrichConcurrency: viper.GetInt("ENRICH_CONCURRENCY"),
		GenreRefresh:      viper.GetString("GENRE_REFRESH"),

		SocialGraph: viper.GetString("SOCIAL_GRAPH"),

		ServerPort:  viper.GetString("SERVER_PORT"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		RateLimit:   viper.GetInt("RATE_LIMIT"),

		DatabaseFile:     filepath.Join(configDir, "mediashelf.db"),
		TranslationsFile: filepath.Join(configDir, "translations.txt"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	// Validate required fields
	if requireSecret && config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if config.UpstreamRetries < 0 {
		return nil, fmt.Errorf("UPSTREAM_RETRIES must not be negative")
	}
	if config.EnrichConcurrency < 1 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be at least 1")
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT must not be negative")
	}
	if config.SocialGraph != "follow" && config.SocialGraph != "friends" {
		return nil, fmt.Errorf("SOCIAL_GRAPH must be follow or friends, got %q", config.SocialGraph)
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
