package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/docgate/internal/domain/document"
)

type DocumentsRepo struct {
	mu    sync.RWMutex
	items map[string]document.Document
}

func NewDocumentsRepo() *DocumentsRepo {
	return &DocumentsRepo{
		items: make(map[string]document.Document),
	}
}

func (r *DocumentsRepo) Create(ctx context.Context, req document.CreateRequest) (document.Document, error) {
	d := document.NewFromCreateRequest(req)

	r.mu.Lock()
	r.items[d.ID] = d
	r.mu.Unlock()

	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context) ([]document.Document, error) {
	r.mu.RLock()
	out := make([]document.Document, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}

	return d, nil
}

func (r *DocumentsRepo) Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.items[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}

	d = req.Apply(d)
	r.items[id] = d

	return d, nil
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return document.ErrNotFound
	}

	delete(r.items, id)
	return nil
}
