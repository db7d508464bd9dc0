package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/geocoder89/docgate/internal/domain/document"
	"github.com/gin-gonic/gin"
)

type DocumentsManager interface {
	Create(ctx context.Context, req document.CreateRequest) (document.Document, error)
	List(ctx context.Context) ([]document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
	Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error)
	Delete(ctx context.Context, id string) error
}

type DocumentsHandler struct {
	docs DocumentsManager
}

func NewDocumentsHandler(docs DocumentsManager) *DocumentsHandler {
	return &DocumentsHandler{docs: docs}
}

func (h *DocumentsHandler) Create(ctx *gin.Context) {
	var req document.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	d, err := h.docs.Create(ctx.Request.Context(), req)

	if err != nil {
		RespondInternal(ctx, "Could not create document")
		return
	}

	ctx.JSON(http.StatusCreated, d)
}

func (h *DocumentsHandler) List(ctx *gin.Context) {
	docs, err := h.docs.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list documents")
		return
	}

	ctx.JSON(http.StatusOK, docs)
}

func (h *DocumentsHandler) Get(ctx *gin.Context) {
	id, ok := requireUUID(ctx, "id")

	if !ok {
		return
	}

	d, err := h.docs.Get(ctx.Request.Context(), id)

	if err != nil {
		h.respondLookupError(ctx, err, "Could not fetch document")
		return
	}

	ctx.JSON(http.StatusOK, d)
}

func (h *DocumentsHandler) Update(ctx *gin.Context) {
	id, ok := requireUUID(ctx, "id")

	if !ok {
		return
	}

	var req document.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	d, err := h.docs.Update(ctx.Request.Context(), id, req)

	if err != nil {
		h.respondLookupError(ctx, err, "Could not update document")
		return
	}

	ctx.JSON(http.StatusOK, d)
}

func (h *DocumentsHandler) Delete(ctx *gin.Context) {
	id, ok := requireUUID(ctx, "id")

	if !ok {
		return
	}

	if err := h.docs.Delete(ctx.Request.Context(), id); err != nil {
		h.respondLookupError(ctx, err, "Could not delete document")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Document with ID %s has been deleted.", id),
	})
}

func (h *DocumentsHandler) respondLookupError(ctx *gin.Context, err error, fallback string) {
	if errors.Is(err, document.ErrNotFound) {
		RespondNotFound(ctx, "Document not found")
		return
	}

	RespondInternal(ctx, fallback)
}
