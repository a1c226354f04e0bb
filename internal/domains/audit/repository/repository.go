package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"

	"toolhub/infras/otel"
	"toolhub/infras/postgres"
	"toolhub/internal/domains/audit/model"
	"toolhub/shared/constant"
	gRepo "toolhub/shared/repository"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type Audit interface {
	Insert(ctx context.Context, entry model.Log) error
}

type repositoryImpl struct {
	repo gRepo.Repository[model.Log]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Audit {
	return &repositoryImpl{
		repo: gRepo.NewRepository[model.Log](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel: otel,
	}
}

// Insert is idempotent on the entry id, so a redelivered event is stored once.
func (r *repositoryImpl) Insert(ctx context.Context, entry model.Log) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".audit.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.repo.Insert(ctx, entry)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		log.Debug().Str("id", entry.ID).Msg("audit entry already stored")

		return nil
	}

	return err //nolint:wrapcheck
}
