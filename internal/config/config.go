package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	commoncfg "github.com/jeerawut3427/personal-system/common/config"
)

// Config covers both the terminal client and the stub action server.
type Config struct {
	API struct {
		BaseURL string
		Path    string
		Timeout time.Duration
	}
	Session struct {
		Backend     string // "file" or "redis"
		File        string
		RedisPrefix string
	}
	Redis commoncfg.RedisConfig

	InactivityTimeout time.Duration
	LogoutGrace       time.Duration
	ExportDir         string
	PageSize          int

	Log struct {
		Level  string
		Format string
		File   string // client only; empty logs to stderr
	}

	// stub server
	HTTP struct {
		Addr string
	}
	DBEnabled   bool
	Database    commoncfg.DatabaseConfig
	MQTTEnabled bool
	MQTT        commoncfg.MQTTConfig
	SeedAdmin   struct {
		Username   string
		Password   string
		Department string
	}
}

// Load reads .env files when present, then the environment. Variables that
// are already set win over .env values.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	cfg := &Config{}
	cfg.API.BaseURL = getEnv("API_BASE_URL", "http://localhost:9999")
	cfg.API.Path = getEnv("API_PATH", "/api")
	cfg.API.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "15s"), 15*time.Second)

	cfg.Session.Backend = getEnv("SESSION_BACKEND", "file")
	cfg.Session.File = getEnv("SESSION_FILE", defaultSessionFile())
	cfg.Session.RedisPrefix = getEnv("SESSION_REDIS_PREFIX", "personal-system:session:")
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.InactivityTimeout = parseDuration(getEnv("INACTIVITY_TIMEOUT", "30m"), 30*time.Minute)
	cfg.LogoutGrace = parseDuration(getEnv("LOGOUT_GRACE", "3s"), 3*time.Second)
	cfg.ExportDir = getEnv("EXPORT_DIR", ".")
	cfg.PageSize = parseInt(getEnv("PAGE_SIZE", "20"), 20)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")
	cfg.Log.File = getEnv("LOG_FILE", "")

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":9999")
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "personnel",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.MQTTEnabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT = commoncfg.MQTTConfig{
		Broker:      "tcp://localhost:1883",
		ClientID:    "personal-system-stub",
		TopicPrefix: "personal-system/",
		QoS:         1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.SeedAdmin.Username = getEnv("SEED_ADMIN_USERNAME", "admin")
	cfg.SeedAdmin.Password = getEnv("SEED_ADMIN_PASSWORD", "admin")
	cfg.SeedAdmin.Department = getEnv("SEED_ADMIN_DEPARTMENT", "")

	return cfg
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".personal-system-session.json"
	}
	return filepath.Join(home, ".personal-system", "session.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
