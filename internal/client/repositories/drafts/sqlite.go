package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d Draft) error {
	blob, err := json.Marshal(d.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", d.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, name, snapshot, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, snapshot = excluded.snapshot, updated_at = excluded.updated_at
	`, d.ID, d.Name, blob, d.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

const selectDraft = `SELECT id, name, snapshot, updated_at FROM drafts`

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Draft, error) {
	return r.one(ctx, selectDraft+` WHERE id = ?`, id)
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*Draft, error) {
	return r.one(ctx, selectDraft+` ORDER BY updated_at DESC LIMIT 1`)
}

func (r *SQLiteRepository) one(ctx context.Context, q string, args ...any) (*Draft, error) {
	d, err := scan(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Draft, error) {
	rows, err := r.db.QueryContext(ctx, selectDraft+` ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var out []Draft
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draft rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Draft, error) {
	var d Draft
	var blob []byte
	if err := s.Scan(&d.ID, &d.Name, &blob, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blob, &d.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", d.ID, err)
	}
	return &d, nil
}
