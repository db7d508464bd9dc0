package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

type Service struct {
	forwarder Forwarder
	store     StatusStore
	log       *slog.Logger
}

func NewService(forwarder Forwarder, store StatusStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{forwarder: forwarder, store: store, log: log}
}

// Trigger forwards payload to the processor and, once it has accepted the
// payload, records an in-progress entry. The processor's response is
// returned as-is.
func (s *Service) Trigger(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	resp, err := s.forwarder.Forward(ctx, payload)

	if err != nil {
		return nil, err
	}

	rec := NewRecord(payload)

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("record ingestion status: %w", err)
	}

	s.log.InfoContext(ctx, "ingestion.triggered", "ingestion_id", rec.ID)

	return resp, nil
}

func (s *Service) Status(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}
