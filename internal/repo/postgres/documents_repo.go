package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/docgate/internal/domain/document"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDocumentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DocumentsRepo {
	return &DocumentsRepo{pool: pool, prom: prom}
}

func (r *DocumentsRepo) Create(ctx context.Context, req document.CreateRequest) (document.Document, error) {
	d := document.NewFromCreateRequest(req)

	err := r.prom.ObserveDB("documents.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO documents (id, title, content, created_at) VALUES ($1,$2,$3,$4)`,
			d.ID, d.Title, d.Content, d.CreatedAt,
		)
		return err
	})

	if err != nil {
		return document.Document{}, err
	}

	return d, nil
}

func (r *DocumentsRepo) List(ctx context.Context) ([]document.Document, error) {
	var out []document.Document

	err := r.prom.ObserveDB("documents.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, title, content, created_at FROM documents ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]document.Document, 0)
		for rows.Next() {
			var d document.Document
			if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (document.Document, error) {
	var d document.Document

	err := r.prom.ObserveDB("documents.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, content, created_at FROM documents WHERE id = $1`, id,
		).Scan(&d.ID, &d.Title, &d.Content, &d.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}

	return d, nil
}

// Update applies a partial update; NULL parameters keep the stored value.
func (r *DocumentsRepo) Update(ctx context.Context, id string, req document.UpdateRequest) (document.Document, error) {
	var d document.Document

	err := r.prom.ObserveDB("documents.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE documents
			SET title = COALESCE($2, title),
				content = COALESCE($3, content)
			WHERE id = $1
			RETURNING id, title, content, created_at`,
			id, req.Title, req.Content,
		).Scan(&d.ID, &d.Title, &d.Content, &d.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}

	return d, nil
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("documents.delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted the id never existed
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}

	return nil
}
