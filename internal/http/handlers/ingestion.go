package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/geocoder89/docgate/internal/ingestion"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/gin-gonic/gin"
)

type IngestionRunner interface {
	Trigger(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	Status(ctx context.Context) ([]ingestion.Record, error)
}

type IngestionHandler struct {
	svc  IngestionRunner
	prom *observability.Prom
}

func NewIngestionHandler(svc IngestionRunner, prom *observability.Prom) *IngestionHandler {
	return &IngestionHandler{svc: svc, prom: prom}
}

type TriggerRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

func (h *IngestionHandler) Trigger(ctx *gin.Context) {
	var req TriggerRequest

	if !BindJSON(ctx, &req) {
		return
	}

	resp, err := h.svc.Trigger(ctx.Request.Context(), req.Payload)

	if err != nil {
		switch {
		case errors.Is(err, ingestion.ErrCircuitOpen):
			h.prom.ObserveIngestion("circuit_open")
			RespondServiceUnavailable(ctx, "Ingestion processor is unavailable")
		case errors.Is(err, ingestion.ErrProcessor):
			h.prom.ObserveIngestion("processor_error")
			RespondBadGateway(ctx, "Ingestion processor failed")
		default:
			h.prom.ObserveIngestion("error")
			RespondInternal(ctx, "Could not trigger ingestion")
		}
		return
	}

	h.prom.ObserveIngestion("ok")

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", resp)
}

func (h *IngestionHandler) Status(ctx *gin.Context) {
	records, err := h.svc.Status(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not load ingestion status")
		return
	}

	ctx.JSON(http.StatusOK, records)
}
