package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL connection settings for the report store.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// RedisConfig holds settings for the Redis-backed session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig holds broker settings for report event publishing.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// GetDSN builds a lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// LoadFromEnv overrides fields from <prefix>_HOST, <prefix>_PORT, ... when set.
func (c *DatabaseConfig) LoadFromEnv(prefix string) {
	c.Host = envOr(prefix+"_HOST", c.Host)
	c.Port = intOr(prefix+"_PORT", c.Port)
	c.User = envOr(prefix+"_USER", c.User)
	c.Password = envOr(prefix+"_PASSWORD", c.Password)
	c.Database = envOr(prefix+"_NAME", c.Database)
	c.SSLMode = envOr(prefix+"_SSLMODE", c.SSLMode)
	c.MaxConns = intOr(prefix+"_MAX_CONNS", c.MaxConns)
	c.MaxIdle = intOr(prefix+"_MAX_IDLE", c.MaxIdle)
}

// LoadFromEnv overrides fields from <prefix>_ADDR, <prefix>_PASSWORD, <prefix>_DB.
func (c *RedisConfig) LoadFromEnv(prefix string) {
	c.Addr = envOr(prefix+"_ADDR", c.Addr)
	c.Password = envOr(prefix+"_PASSWORD", c.Password)
	c.DB = intOr(prefix+"_DB", c.DB)
}

// LoadFromEnv overrides fields from <prefix>_BROKER, <prefix>_CLIENT_ID, ...
func (c *MQTTConfig) LoadFromEnv(prefix string) {
	c.Broker = envOr(prefix+"_BROKER", c.Broker)
	c.ClientID = envOr(prefix+"_CLIENT_ID", c.ClientID)
	c.Username = envOr(prefix+"_USERNAME", c.Username)
	c.Password = envOr(prefix+"_PASSWORD", c.Password)
	c.TopicPrefix = envOr(prefix+"_TOPIC_PREFIX", c.TopicPrefix)
	if qos := intOr(prefix+"_QOS", int(c.QoS)); qos >= 0 && qos <= 2 {
		c.QoS = byte(qos)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
