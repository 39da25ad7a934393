package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings for both the console and the directory API binaries.
type Config struct {
	ConsoleAddr       string
	DirectoryAPIURL   string
	DirectoryTimeout  time.Duration
	SearchDebounce    time.Duration
	PageStale         time.Duration
	RoleLookupStale   time.Duration
	QueryGC           time.Duration
	SessionIdle       time.Duration
	DirectoryAddr     string
	SQLitePath        string
	DirectoryPageSize int
	LogLevel          slog.Level
}

// Load reads an optional .env file and then the environment. Values that do
// not parse fall back to their defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config: .env not loaded", slog.Any("err", err))
	}

	return Config{
		ConsoleAddr:       getenv("APP_ADDR", ":8080"),
		DirectoryAPIURL:   strings.TrimRight(getenv("DIRECTORY_API_URL", "http://localhost:3002"), "/"),
		DirectoryTimeout:  getduration("DIRECTORY_HTTP_TIMEOUT", 10*time.Second),
		SearchDebounce:    getduration("CONSOLE_SEARCH_DEBOUNCE", 300*time.Millisecond),
		PageStale:         getduration("CONSOLE_PAGE_STALE", 0),
		RoleLookupStale:   getduration("CONSOLE_ROLE_LOOKUP_STALE", 2*time.Minute),
		QueryGC:           getduration("CONSOLE_QUERY_GC", 5*time.Minute),
		SessionIdle:       getduration("CONSOLE_SESSION_IDLE", 30*time.Minute),
		DirectoryAddr:     getenv("DIRECTORY_ADDR", ":3002"),
		SQLitePath:        getenv("SQLITE_PATH", "directory.db"),
		DirectoryPageSize: getint("DIRECTORY_PAGE_SIZE", 10),
		LogLevel:          getlevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// InitLogging installs the default slog text handler at the configured level.
func (c Config) InitLogging() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel})
	slog.SetDefault(slog.New(h))
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("config: invalid duration, using default", slog.String("key", key), slog.String("value", raw))
		return fallback
	}
	return d
}

func getint(key string, fallback int) int {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		slog.Warn("config: invalid integer, using default", slog.String("key", key), slog.String("value", raw))
		return fallback
	}
	return n
}

func getlevel(key string, fallback slog.Level) slog.Level {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("config: invalid log level, using default", slog.String("key", key), slog.String("value", raw))
		return fallback
	}
	return lvl
}
