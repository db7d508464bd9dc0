package services

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/docgate/internal/cache"
	"github.com/geocoder89/docgate/internal/domain/document"
)

const documentsListKey = "documents:all"

type DocumentsStore interface {
	Create(ctx context.Context, req document.CreateRequest) (document.Document, error)
	List(ctx context.Context) ([]document.Document, error)
	GetByID(ctx context.Context, id string) (document.Document, error)
	Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error)
	Delete(ctx context.Context, id string) error
}

type DocumentsService struct {
	store DocumentsStore
	list  *cache.Cache[[]document.Document]
}

func NewDocumentsService(store DocumentsStore, listTTL time.Duration) *DocumentsService {
	return &DocumentsService{
		store: store,
		list:  cache.New[[]document.Document](listTTL),
	}
}

func (s *DocumentsService) Create(ctx context.Context, req document.CreateRequest) (document.Document, error) {
	d, err := s.store.Create(ctx, req)

	if err != nil {
		return document.Document{}, fmt.Errorf("create document: %w", err)
	}

	s.list.Delete(documentsListKey)
	return d, nil
}

func (s *DocumentsService) List(ctx context.Context) ([]document.Document, error) {
	if cached, ok := s.list.Get(documentsListKey); ok {
		return cached, nil
	}

	gen := s.list.Generation()
	docs, err := s.store.List(ctx)

	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	s.list.Set(documentsListKey, docs, gen)
	return docs, nil
}

func (s *DocumentsService) Get(ctx context.Context, id string) (document.Document, error) {
	return s.store.GetByID(ctx, id)
}

// Update changes only the fields present in req.
func (s *DocumentsService) Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error) {
	if req.Empty() {
		return s.store.GetByID(ctx, id)
	}

	d, err := s.store.Update(ctx, id, req)

	if err != nil {
		return document.Document{}, err
	}

	s.list.Delete(documentsListKey)
	return d, nil
}

func (s *DocumentsService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.list.Delete(documentsListKey)
	return nil
}
