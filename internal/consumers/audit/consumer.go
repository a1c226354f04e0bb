// Package audit stores audit events published by the reservation service.
package audit

import (
	"context"
	"fmt"

	"toolhub/config"
	"toolhub/infras/kafka"
	"toolhub/infras/otel"
	"toolhub/internal/domains/audit/model"
	"toolhub/internal/domains/audit/service"
	"toolhub/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Consumer struct {
	client   kafka.Client
	recorder service.Recorder
	cfg      *config.Config
	otel     otel.Otel
}

func NewConsumer(client kafka.Client, recorder service.Recorder, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		client:   client,
		recorder: recorder,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run consumes the audit topic until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.cfg.Kafka.Topics.Audit).Msg("Starting audit consumer")

	if err := c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.Audit, c.Handle); err != nil {
		return fmt.Errorf("audit consumer stopped: %w", err)
	}

	return nil
}

func (c *Consumer) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close kafka client: %w", err)
	}

	return nil
}

// Handle persists one event. Malformed payloads are dropped, since retrying cannot fix them.
func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".audit.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := kafka.Decode[model.Event](msg)
	if err != nil {
		return nil
	}

	if err = event.Validate(); err != nil {
		log.Warn().Err(err).Str("key", string(msg.Key)).Msg("Dropping incomplete audit event")

		return nil
	}

	return c.recorder.Persist(ctx, event) //nolint:wrapcheck
}
