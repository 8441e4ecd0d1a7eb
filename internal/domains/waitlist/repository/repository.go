package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"atelier/infras/otel"
	"atelier/infras/postgres"
	"atelier/internal/domains/waitlist/model"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/logger"
	gRepo "atelier/shared/repository"
)

type Waitlist interface {
	Insert(ctx context.Context, model model.WaitlistEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.WaitlistEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WaitlistEntry, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateChecked(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Resequence(ctx context.Context, sessionID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.WaitlistEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Waitlist {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.WaitlistEntry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Resequence renumbers a session's pending entries to a contiguous 1-based
// run ordered by their current position, closing any gap a promotion or
// cancellation left behind.
func (repo *repositoryImpl) Resequence(ctx context.Context, sessionID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".waitlist_entry.Resequence")
	defer scope.End()

	query := `UPDATE waitlist_entries SET position = ranked.seq
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position, created_at) AS seq
			FROM waitlist_entries
			WHERE session_id = $1 AND status = $2
		) ranked
		WHERE waitlist_entries.id = ranked.id`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.ExecContext(ctx, query, sessionID, model.StatusPending)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to resequence data (%s): %w", model.EntityName, err)
	}

	if rows, err := result.RowsAffected(); err == nil {
		scope.SetAttribute("db.rows_affected", rows)
	}

	return nil
}
