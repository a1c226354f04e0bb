//go:build wireinject
// +build wireinject

package di

import (
	"toolhub/config"
	"toolhub/infras/kafka"
	"toolhub/infras/otel"
	"toolhub/infras/postgres"
	"toolhub/infras/redis"
	auditConsumer "toolhub/internal/consumers/audit"
	"toolhub/shared/cache"
	"toolhub/shared/locker"
	"toolhub/transport/http"
	"toolhub/transport/http/middleware"
	"toolhub/transport/http/router"

	auditRepository "toolhub/internal/domains/audit/repository"
	auditService "toolhub/internal/domains/audit/service"
	equipmentRepository "toolhub/internal/domains/equipment/repository"
	equipmentService "toolhub/internal/domains/equipment/service"
	reservationRepository "toolhub/internal/domains/reservation/repository"
	reservationService "toolhub/internal/domains/reservation/service"
	equipmentHandler "toolhub/internal/handlers/equipment"
	reservationHandler "toolhub/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewIdentityMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	locker.New,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var equipmentDomain = wire.NewSet(
	equipmentRepository.New,
	equipmentService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
	reservationService.NewCalendar,
)

var domains = wire.NewSet(
	auditDomain,
	equipmentDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	equipmentHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		kafka.NewIfEnabled,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeAuditConsumer() *auditConsumer.Consumer {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		kafka.New,
		auditDomain,
		auditConsumer.NewConsumer,
	)

	return &auditConsumer.Consumer{}
}
