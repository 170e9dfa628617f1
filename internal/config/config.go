package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Browser  BrowserConfig
	Scraper  ScraperConfig
	Storage  StorageConfig
	Download DownloadConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	UserAgent      string
}

type ScraperConfig struct {
	PageLoadWait      time.Duration
	TabWait           time.Duration
	ScrollPause       time.Duration
	CaptureWait       time.Duration
	CaptureTimeout    time.Duration
	RateLimitMin      time.Duration
	RateLimitMax      time.Duration
	BatchEvery        int           // 0 keeps the mode default
	BatchPause        time.Duration // 0 keeps the mode default
	MaxRetries        int
	NavigationRetries int
	SearchSuffix      string
	MinPriceImageSize int
}

type StorageConfig struct {
	BaseDir      string
	ReportDir    string
	ProgressFile string
	FetchDir     string
}

type DownloadConfig struct {
	Timeout   time.Duration
	Referer   string
	CacheSize int
}

type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int32
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Stream   string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", false),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Asia/Seoul"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "ko-KR"),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", DefaultUserAgent),
		},
		Scraper: ScraperConfig{
			PageLoadWait:      getDurationOrDefault("SCRAPER_PAGE_LOAD_WAIT", 5*time.Second),
			TabWait:           getDurationOrDefault("SCRAPER_TAB_WAIT", 3*time.Second),
			ScrollPause:       getDurationOrDefault("SCRAPER_SCROLL_PAUSE", 800*time.Millisecond),
			CaptureWait:       getDurationOrDefault("SCRAPER_CAPTURE_WAIT", 3*time.Second),
			CaptureTimeout:    getDurationOrDefault("SCRAPER_CAPTURE_TIMEOUT", 10*time.Second),
			RateLimitMin:      getDurationOrDefault("SCRAPER_RATE_LIMIT_MIN", 0),
			RateLimitMax:      getDurationOrDefault("SCRAPER_RATE_LIMIT_MAX", 0),
			BatchEvery:        getIntOrDefault("SCRAPER_BATCH_EVERY", 0),
			BatchPause:        getDurationOrDefault("SCRAPER_BATCH_PAUSE", 0),
			MaxRetries:        getIntOrDefault("SCRAPER_MAX_RETRIES", 0),
			NavigationRetries: getIntOrDefault("SCRAPER_NAVIGATION_RETRIES", 1),
			SearchSuffix:      getEnvOrDefault("SCRAPER_SEARCH_SUFFIX", "세신"),
			MinPriceImageSize: getIntOrDefault("SCRAPER_MIN_PRICE_IMAGE_SIZE", 150),
		},
		Storage: StorageConfig{
			BaseDir:      getEnvOrDefault("STORAGE_BASE_DIR", "downloads"),
			ReportDir:    getEnvOrDefault("STORAGE_REPORT_DIR", "."),
			ProgressFile: getEnvOrDefault("STORAGE_PROGRESS_FILE", ".place-archiver/progress.json"),
			FetchDir:     getEnvOrDefault("STORAGE_FETCH_DIR", "naver_map_photos"),
		},
		Download: DownloadConfig{
			Timeout:   getDurationOrDefault("DOWNLOAD_TIMEOUT", 15*time.Second),
			Referer:   getEnvOrDefault("DOWNLOAD_REFERER", "https://map.naver.com/"),
			CacheSize: getIntOrDefault("DOWNLOAD_CACHE_SIZE", 32),
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
			File:       getEnvOrDefault("LOG_FILE", ""),
			MaxSizeMB:  getIntOrDefault("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 3),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolOrDefault("DB_ENABLED", false),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "place_archiver"),
			MaxConns: int32(getIntOrDefault("DB_MAX_CONNS", 4)),
		},
		Redis: RedisConfig{
			Enabled:  getBoolOrDefault("REDIS_ENABLED", false),
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			Stream:   getEnvOrDefault("REDIS_STREAM", "stream:place_archive"),
		},
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "127.0.0.1"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Browser.Timeout <= 0 {
		return fmt.Errorf("BROWSER_TIMEOUT must be positive")
	}

	if c.Scraper.RateLimitMin > c.Scraper.RateLimitMax {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be greater than SCRAPER_RATE_LIMIT_MAX")
	}

	if c.Scraper.MaxRetries < 0 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES cannot be negative")
	}

	if c.Scraper.NavigationRetries < 1 {
		return fmt.Errorf("SCRAPER_NAVIGATION_RETRIES must be at least 1")
	}

	if strings.TrimSpace(c.Storage.BaseDir) == "" {
		return fmt.Errorf("STORAGE_BASE_DIR is required")
	}

	if c.Download.CacheSize < 1 {
		return fmt.Errorf("DOWNLOAD_CACHE_SIZE must be at least 1")
	}

	if c.Database.Enabled && c.Database.DBName == "" {
		return fmt.Errorf("DB_NAME is required when DB_ENABLED is set")
	}

	if c.Redis.Enabled && c.Redis.Stream == "" {
		return fmt.Errorf("REDIS_STREAM is required when REDIS_ENABLED is set")
	}

	return nil
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
