package repository

//go:generate go run go.uber.org/mock/mockgen -source=./qr.go -destination=../mocks/qr_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/internal/domains/booking/model"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/logger"
	gRepo "atelier/shared/repository"
)

type QrToken interface {
	Upsert(ctx context.Context, model model.QrToken) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.QrToken, error)
	GetByCode(ctx context.Context, code string) (model.QrToken, error)
}

type qrTokenImpl struct {
	gRepo.Repository[model.QrToken]
	db   *postgres.Connection
	otel otel.Otel
}

func NewQrToken(db *postgres.Connection, otel otel.Otel) QrToken {
	return &qrTokenImpl{
		Repository: gRepo.NewRepository[model.QrToken](model.QrEntityName, model.QrTableName, model.QrFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Upsert inserts the token, or replaces the code and expiry of the token
// already held by the same booking.
func (repo *qrTokenImpl) Upsert(ctx context.Context, mod model.QrToken) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".qr_token.Upsert")
	defer scope.End()

	query := `INSERT INTO qr_tokens (id, booking_id, code, expires_at, created_at)
		VALUES (:id, :booking_id, :code, :expires_at, :created_at)
		ON CONFLICT (booking_id)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.NamedExecContext(ctx, query, mod)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert data (%s): %w", model.QrEntityName, err)
	}

	return nil
}

func (repo *qrTokenImpl) GetByCode(ctx context.Context, code string) (model.QrToken, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".qr_token.GetByCode")
	defer scope.End()

	query := "SELECT id, booking_id, code, expires_at, created_at FROM qr_tokens WHERE code = $1"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var mod model.QrToken

	err := repo.db.Read.GetContext(ctx, &mod, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return mod, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return mod, fmt.Errorf("failed to get data (%s): %w", model.QrEntityName, err)
	}

	return mod, nil
}
