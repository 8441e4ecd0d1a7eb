//go:build wireinject
// +build wireinject

package di

import (
	"atelier/config"
	"atelier/infras/jwt"
	"atelier/infras/kafka"
	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/infras/redis"
	"atelier/permissions"
	"atelier/shared/cache"
	"atelier/transport/http"
	"atelier/transport/http/middleware"
	"atelier/transport/http/router"

	bookingRepository "atelier/internal/domains/booking/repository"
	bookingService "atelier/internal/domains/booking/service"
	clientRepository "atelier/internal/domains/client/repository"
	planRepository "atelier/internal/domains/plan/repository"
	planService "atelier/internal/domains/plan/service"
	sessionRepository "atelier/internal/domains/session/repository"
	sessionService "atelier/internal/domains/session/service"
	waitlistRepository "atelier/internal/domains/waitlist/repository"

	bookingHandler "atelier/internal/handlers/booking"
	sessionHandler "atelier/internal/handlers/session"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var sessionDomain = wire.NewSet(
	sessionRepository.New,
	sessionService.New,
)

var planDomain = wire.NewSet(
	planRepository.NewPurchase,
	planRepository.NewUsage,
	planService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewEvent,
	bookingRepository.NewQrToken,
	clientRepository.New,
	waitlistRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	sessionDomain,
	planDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	sessionHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
