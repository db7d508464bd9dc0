package document

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

// partial update: nil fields are left untouched
type UpdateRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

func NewFromCreateRequest(req CreateRequest) Document {
	return Document{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
}

func (req UpdateRequest) Apply(d Document) Document {
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Content != nil {
		d.Content = *req.Content
	}
	return d
}

func (req UpdateRequest) Empty() bool {
	return req.Title == nil && req.Content == nil
}
