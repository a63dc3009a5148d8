//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"docuvault/cmd/collection-service/internal/biz"
	"docuvault/cmd/collection-service/internal/data"
	"docuvault/cmd/collection-service/internal/infrastructure/event"
	"docuvault/cmd/collection-service/internal/server"
	"docuvault/pkg/auth"
	"docuvault/pkg/cache"
	"docuvault/pkg/database"
)

// wireApp assembles the collection service. The provider set is the
// explicit initialization plan: each component declares what it needs and
// construction fails closed if a dependency cannot be built.
func wireApp(c *Config, logger log.Logger) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		// Config conversion providers
		provideDatabaseConfig,
		provideRedisConfig,
		providePublisherConfig,
		provideJWTConfig,
		provideHTTPConfig,

		// Infrastructure layer
		database.NewDB,
		cache.NewRedisClient,
		event.NewKafkaAuditPublisher,
		wire.Bind(new(event.AuditPublisher), new(*event.KafkaAuditPublisher)),
		auth.NewJWTManager,

		// Data layer
		data.NewData,
		data.NewShardRepo,
		data.NewCollectionRepo,
		data.NewPermissionRepo,

		// Business logic layer
		biz.NewQueryTranslator,
		biz.NewAuthzService,
		biz.NewManualResolver,
		biz.NewSmartResolver,
		biz.NewAuditor,
		biz.NewCollectionUsecase,

		// Server layer
		server.NewHTTPServer,
	))
}
