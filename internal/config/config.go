package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ChecksPath     string        // YAML file with the check declarations
	Addr           string        // API bind address, e.g., "127.0.0.1:8080"; empty disables the API
	LogDir         string        // logs directory
	LogLevel       string        // debug|info|warn|error
	ProbeTimeout   time.Duration // per-probe timeout when a check sets none
	MaxConcurrent  int           // cap on in-flight executions, 0 = unlimited
	RetryAttempts  int           // probe attempts per execution
	RetryBackoff   time.Duration // backoff between retries
	PublicAPIKeys  []string
	PublicRPM      int
	PublicBurst    int
	AllowedOrigins []string
}

func FromEnv() Config {
	checksPath := os.Getenv("CONFIG_PATH")
	if checksPath == "" {
		checksPath = "config.yml"
	}

	// Bind address (Windows-friendly default); an explicit empty value turns the API off
	addr, set := os.LookupEnv("API_ADDR")
	switch {
	case !set:
		addr = "127.0.0.1:8080"
	case strings.EqualFold(strings.TrimSpace(addr), "off"):
		addr = ""
	}

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		ChecksPath:     checksPath,
		Addr:           addr,
		LogDir:         logDir,
		LogLevel:       logLevel,
		ProbeTimeout:   envMillis("PROBE_TIMEOUT_MS", 10*time.Second, 1),
		MaxConcurrent:  envInt("MAX_CONCURRENT_CHECKS", 64, 0),
		RetryAttempts:  envInt("RETRY_ATTEMPTS", 1, 1),
		RetryBackoff:   envMillis("RETRY_BACKOFF_MS", 300*time.Millisecond, 0),
		PublicAPIKeys:  splitList(os.Getenv("PUBLIC_API_KEYS")),
		PublicRPM:      envInt("PUBLIC_RPM", 120, 0),
		PublicBurst:    envInt("PUBLIC_BURST", 30, 1),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
}

// envInt falls back to def when the variable is unset, malformed or below floor.
func envInt(key string, def, floor int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < floor {
		return def
	}
	return n
}

func envMillis(key string, def time.Duration, floor int) time.Duration {
	ms := envInt(key, -1, floor)
	if ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
