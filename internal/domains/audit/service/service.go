package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"toolhub/config"
	"toolhub/infras/kafka"
	"toolhub/infras/otel"
	"toolhub/internal/domains/audit/model"
	"toolhub/internal/domains/audit/repository"
	"toolhub/shared/constant"
	"toolhub/shared/logger"
	"toolhub/shared/timezone"

	"github.com/google/uuid"
)

// Recorder writes audit events for the reservation core.
type Recorder interface {
	// Record publishes the event when Kafka is enabled and stores it directly otherwise.
	Record(ctx context.Context, event model.Event) error
	// Persist stores the event in the audit table.
	Persist(ctx context.Context, event model.Event) error
}

type serviceImpl struct {
	repo  repository.Audit
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

// New builds the recorder. kafkaClient may be nil when Kafka is disabled.
func New(repo repository.Audit, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Recorder {
	return &serviceImpl{
		repo:  repo,
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = timezone.Now()
	}

	if err = event.Validate(); err != nil {
		return err //nolint:wrapcheck
	}

	if !s.cfg.Kafka.Enable || s.kafka == nil {
		return s.Persist(ctx, event)
	}

	err = s.kafka.Publish(ctx, s.cfg.Kafka.Topics.Audit, []kafka.Message{{Key: event.EntityID, Value: event}})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

func (s *serviceImpl) Persist(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Persist")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = event.Validate(); err != nil {
		return err //nolint:wrapcheck
	}

	entry, err := event.ToLog(timezone.Now())
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, entry); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to store audit event: %w", err)
	}

	return nil
}
