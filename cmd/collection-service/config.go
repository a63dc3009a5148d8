package main

import (
	"time"

	"docuvault/pkg/cache"
	"docuvault/pkg/database"
	"docuvault/pkg/observability"
)

// Config is the application config.
type Config struct {
	Server        ServerConf                  `yaml:"server"`
	Data          DataConf                    `yaml:"data"`
	Redis         cache.RedisConfig           `yaml:"redis"`
	Event         EventConf                   `yaml:"event"`
	Auth          AuthConf                    `yaml:"auth"`
	RateLimit     RateLimitConf               `yaml:"rate_limit"`
	Observability observability.TracingConfig `yaml:"observability"`
}

// ServerConf is the server config.
type ServerConf struct {
	HTTP HTTPConf `yaml:"http"`
}

type HTTPConf struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// DataConf is the data config.
type DataConf struct {
	Database database.Config `yaml:"database"`
}

// EventConf is the audit event config (Kafka).
type EventConf struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AuthConf is the auth config.
type AuthConf struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// RateLimitConf is the per-(tenant,user) rate limit config.
type RateLimitConf struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}
