package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping           func(ctx context.Context) error
	ingestionState func() string
}

// ping may be nil when there is no backing database to check.
func NewHealthHandler(ping func(ctx context.Context) error, ingestionState func() string) *HealthHandler {
	return &HealthHandler{ping: ping, ingestionState: ingestionState}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz fails only on the database; an open ingestion circuit is reported
// but the API can still serve everything else.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	body := gin.H{"status": "ready"}

	if h.ingestionState != nil {
		body["ingestion"] = h.ingestionState()
	}

	if h.ping != nil {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		defer cancel()

		if err := h.ping(cctx); err != nil {
			body["status"] = "not_ready"
			body["db"] = "down"
			ctx.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}

	ctx.JSON(http.StatusOK, body)
}
