package main

import (
	"docuvault/cmd/collection-service/internal/infrastructure/event"
	"docuvault/cmd/collection-service/internal/server"
	"docuvault/pkg/auth"
	"docuvault/pkg/cache"
	"docuvault/pkg/database"
)

// provideDatabaseConfig converts main Config to database.Config.
func provideDatabaseConfig(c *Config) *database.Config {
	return &c.Data.Database
}

// provideRedisConfig converts main Config to cache.RedisConfig.
func provideRedisConfig(c *Config) *cache.RedisConfig {
	return &c.Redis
}

// providePublisherConfig converts main Config to event.PublisherConfig.
func providePublisherConfig(c *Config) event.PublisherConfig {
	return event.PublisherConfig{
		Brokers: c.Event.Brokers,
		Topic:   c.Event.Topic,
	}
}

// provideJWTConfig converts main Config to auth.JWTConfig.
func provideJWTConfig(c *Config) *auth.JWTConfig {
	return &auth.JWTConfig{
		SecretKey:     c.Auth.JWTSecret,
		TokenDuration: c.Auth.TokenDuration,
	}
}

// provideHTTPConfig converts main Config to server.HTTPConfig.
func provideHTTPConfig(c *Config) *server.HTTPConfig {
	return &server.HTTPConfig{
		Addr:                 c.Server.HTTP.Addr,
		Timeout:              c.Server.HTTP.Timeout,
		RateLimitMaxRequests: c.RateLimit.MaxRequests,
		RateLimitWindow:      c.RateLimit.Window,
	}
}
