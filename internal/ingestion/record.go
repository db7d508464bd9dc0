package ingestion

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const StatusInProgress = "in_progress"

var (
	ErrCircuitOpen = errors.New("ingestion processor circuit open")
	ErrProcessor   = errors.New("ingestion processor error")
)

// Record is appended once per accepted trigger and never changes afterwards.
type Record struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewRecord(payload json.RawMessage) Record {
	return Record{
		ID:        uuid.NewString(),
		Status:    StatusInProgress,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}
