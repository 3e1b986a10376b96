// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Log         LogConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Cache       CacheConfig
	RapidAPI    RapidAPIConfig
	Twitter     TwitterConfig
	Instagram   InstagramConfig
	Facebook    FacebookConfig
	YouTube     YouTubeConfig
	Trends      TrendsConfig
	News        NewsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	CorsOrigins     []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// DatabaseConfig holds the optional snapshot database configuration
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. An empty URL disables events.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsSubject  string
}

// CacheConfig holds shared cache settings
type CacheConfig struct {
	Capacity      int
	StatsTTL      time.Duration
	PlatformTTL   time.Duration
	SentimentTTL  time.Duration
	SentimentSize int
}

// RapidAPIConfig holds the RapidAPI credential shared by the hosted upstreams
type RapidAPIConfig struct {
	Key     string
	Timeout time.Duration
}

// TwitterConfig holds microblog adapter configuration
type TwitterConfig struct {
	Host        string
	BaseURL     string
	BearerToken string
	V2BaseURL   string
	YSRCPQuery  string
	TDPQuery    string
	YSRCPHandle string
	TDPHandle   string
	TTL         time.Duration
}

// InstagramConfig holds image platform adapter configuration
type InstagramConfig struct {
	Host        string
	BaseURL     string
	YSRCPHandle string
	TDPHandle   string
	TTL         time.Duration
}

// FacebookConfig holds page-scrape adapter configuration
type FacebookConfig struct {
	Host      string
	BaseURL   string
	YSRCPPage string
	TDPPage   string
	Timeout   time.Duration
	TTL       time.Duration
}

// YouTubeConfig holds video adapter configuration
type YouTubeConfig struct {
	Host           string
	BaseURL        string
	YSRCPChannel   string
	TDPChannel     string
	YSRCPChannelID string
	TDPChannelID   string
	TTL            time.Duration
}

// TrendsConfig holds search-trend adapter configuration
type TrendsConfig struct {
	BaseURL     string
	Geo         string
	Timeframe   string
	MaxAttempts int
	BackoffUnit time.Duration
	TTL         time.Duration
}

// NewsConfig holds news adapter configuration
type NewsConfig struct {
	YSRCPFeed      string
	TDPFeed        string
	PoliticsFeed   string
	NewsAPIKey     string
	NewsAPIURL     string
	EntriesPerFeed int
	TTL            time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 75*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "partypulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsSubject:  getEnv("NATS_EVENTS_SUBJECT", "dashboard"),
		},
		Cache: CacheConfig{
			Capacity:      getEnvAsInt("CACHE_CAPACITY", 50),
			StatsTTL:      getEnvAsDuration("CACHE_STATS_TTL", 15*time.Minute),
			PlatformTTL:   getEnvAsDuration("CACHE_PLATFORM_TTL", 30*time.Minute),
			SentimentTTL:  getEnvAsDuration("CACHE_SENTIMENT_TTL", time.Hour),
			SentimentSize: getEnvAsInt("CACHE_SENTIMENT_SIZE", 500),
		},
		RapidAPI: RapidAPIConfig{
			Key:     getEnv("RAPIDAPI_KEY", ""),
			Timeout: getEnvAsDuration("RAPIDAPI_TIMEOUT", 15*time.Second),
		},
		Twitter: TwitterConfig{
			Host:        getEnv("TWITTER_RAPIDAPI_HOST", "twitter241.p.rapidapi.com"),
			BaseURL:     getEnv("TWITTER_BASE_URL", ""),
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			V2BaseURL:   getEnv("TWITTER_V2_BASE_URL", "https://api.twitter.com"),
			YSRCPQuery:  getEnv("TWITTER_YSRCP_QUERY", "YSRCP"),
			TDPQuery:    getEnv("TWITTER_TDP_QUERY", "TDP Chandrababu"),
			YSRCPHandle: getEnv("TWITTER_YSRCP_HANDLE", "YSRCParty"),
			TDPHandle:   getEnv("TWITTER_TDP_HANDLE", "JaiTDP"),
			TTL:         getEnvAsDuration("TWITTER_CACHE_TTL", 15*time.Minute),
		},
		Instagram: InstagramConfig{
			Host:        getEnv("INSTAGRAM_RAPIDAPI_HOST", "instagram120.p.rapidapi.com"),
			BaseURL:     getEnv("INSTAGRAM_BASE_URL", ""),
			YSRCPHandle: getEnv("INSTAGRAM_YSRCP_HANDLE", "ysrcongress"),
			TDPHandle:   getEnv("INSTAGRAM_TDP_HANDLE", "jai_tdp"),
			TTL:         getEnvAsDuration("INSTAGRAM_CACHE_TTL", 30*time.Minute),
		},
		Facebook: FacebookConfig{
			Host:      getEnv("FACEBOOK_RAPIDAPI_HOST", "facebook-scraper3.p.rapidapi.com"),
			BaseURL:   getEnv("FACEBOOK_BASE_URL", ""),
			YSRCPPage: getEnv("FACEBOOK_YSRCP_PAGE", "https://www.facebook.com/ysrcpofficial"),
			TDPPage:   getEnv("FACEBOOK_TDP_PAGE", "https://www.facebook.com/TDP.Official"),
			Timeout:   getEnvAsDuration("FACEBOOK_TIMEOUT", 30*time.Second),
			TTL:       getEnvAsDuration("FACEBOOK_CACHE_TTL", 30*time.Minute),
		},
		YouTube: YouTubeConfig{
			Host:           getEnv("YOUTUBE_RAPIDAPI_HOST", "youtube138.p.rapidapi.com"),
			BaseURL:        getEnv("YOUTUBE_BASE_URL", ""),
			YSRCPChannel:   getEnv("YOUTUBE_YSRCP_CHANNEL", "ysrcpofficial"),
			TDPChannel:     getEnv("YOUTUBE_TDP_CHANNEL", "TeluguDesamPartyOfficial"),
			YSRCPChannelID: getEnv("YOUTUBE_YSRCP_CHANNEL_ID", "UC2asVumemMOELpHjmC9V7Dw"),
			TDPChannelID:   getEnv("YOUTUBE_TDP_CHANNEL_ID", "UCvMZV13-yh2sUQY2s0Y5hlg"),
			TTL:            getEnvAsDuration("YOUTUBE_CACHE_TTL", 30*time.Minute),
		},
		Trends: TrendsConfig{
			BaseURL:     getEnv("TRENDS_BASE_URL", "https://trends.google.com"),
			Geo:         getEnv("TRENDS_GEO", "IN-AP"),
			Timeframe:   getEnv("TRENDS_TIMEFRAME", "today 3-m"),
			MaxAttempts: getEnvAsInt("TRENDS_MAX_ATTEMPTS", 3),
			BackoffUnit: getEnvAsDuration("TRENDS_BACKOFF_UNIT", time.Second),
			TTL:         getEnvAsDuration("TRENDS_CACHE_TTL", time.Hour),
		},
		News: NewsConfig{
			YSRCPFeed:      getEnv("NEWS_YSRCP_FEED", "https://news.google.com/rss/search?q=YSRCP+OR+%22YS+Jagan%22+when:7d&hl=en-IN&gl=IN&ceid=IN:en"),
			TDPFeed:        getEnv("NEWS_TDP_FEED", "https://news.google.com/rss/search?q=TDP+OR+%22Chandrababu+Naidu%22+when:7d&hl=en-IN&gl=IN&ceid=IN:en"),
			PoliticsFeed:   getEnv("NEWS_POLITICS_FEED", "https://news.google.com/rss/search?q=Andhra+Pradesh+politics+when:7d&hl=en-IN&gl=IN&ceid=IN:en"),
			NewsAPIKey:     getEnv("NEWS_API_KEY", ""),
			NewsAPIURL:     getEnv("NEWS_API_URL", "https://newsapi.org"),
			EntriesPerFeed: getEnvAsInt("NEWS_ENTRIES_PER_FEED", 20),
			TTL:            getEnvAsDuration("NEWS_CACHE_TTL", 30*time.Minute),
		},
	}

	return config, validate(config)
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// validate checks if config is valid
func validate(config Config) error {
	if config.RapidAPI.Key == "" && !config.IsDevelopment() {
		return fmt.Errorf("RAPIDAPI_KEY must be set in non-development environments")
	}
	if config.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got %d", config.Cache.Capacity)
	}
	if config.Trends.MaxAttempts < 1 {
		return fmt.Errorf("trends max attempts must be at least 1, got %d", config.Trends.MaxAttempts)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
