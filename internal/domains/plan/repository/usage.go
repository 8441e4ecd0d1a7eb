package repository

//go:generate go run go.uber.org/mock/mockgen -source=./usage.go -destination=../mocks/usage_mock.go -package=mocks

import (
	"context"

	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/internal/domains/plan/model"
	gDto "atelier/shared/dto"
	gRepo "atelier/shared/repository"
)

type Usage interface {
	Insert(ctx context.Context, model model.PlanUsage) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PlanUsage, error)
}

type usageImpl struct {
	gRepo.Repository[model.PlanUsage]
	db   *postgres.Connection
	otel otel.Otel
}

func NewUsage(db *postgres.Connection, otel otel.Otel) Usage {
	return &usageImpl{
		Repository: gRepo.NewRepository[model.PlanUsage](model.UsageEntityName, model.UsageTableName, model.UsageFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
