package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/internal/domains/plan/model"
	gDto "atelier/shared/dto"
	gRepo "atelier/shared/repository"
)

type Purchase interface {
	Insert(ctx context.Context, model model.PlanPurchase) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PlanPurchase, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PlanPurchase, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateChecked(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type purchaseImpl struct {
	gRepo.Repository[model.PlanPurchase]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPurchase(db *postgres.Connection, otel otel.Otel) Purchase {
	return &purchaseImpl{
		Repository: gRepo.NewRepository[model.PlanPurchase](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
