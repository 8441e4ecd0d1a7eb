package repository

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"

	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/internal/domains/booking/model"
	gDto "atelier/shared/dto"
	gRepo "atelier/shared/repository"
)

type Event interface {
	Insert(ctx context.Context, model model.BookingEvent) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingEvent, error)
}

type eventImpl struct {
	gRepo.Repository[model.BookingEvent]
	db   *postgres.Connection
	otel otel.Otel
}

func NewEvent(db *postgres.Connection, otel otel.Otel) Event {
	return &eventImpl{
		Repository: gRepo.NewRepository[model.BookingEvent](model.EventEntityName, model.EventTableName, model.EventFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
