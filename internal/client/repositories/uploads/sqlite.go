package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/dbx"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO uploads (attachment_id, media_id, category, object_key, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.AttachmentID, rec.MediaID, string(rec.Category), rec.ObjectKey, rec.ContentType, rec.Size, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add upload %s: %w", rec.MediaID, err)
	}
	return nil
}

const selectColumns = `SELECT attachment_id, media_id, category, object_key, content_type, size, created_at FROM uploads`

func (r *SQLiteRepository) LatestForAttachment(ctx context.Context, attachmentID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE attachment_id = ? ORDER BY created_at DESC LIMIT 1`, attachmentID)
	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload for %s: %w", attachmentID, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteByMediaID(ctx context.Context, mediaID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE media_id = ?`, mediaID); err != nil {
		return fmt.Errorf("failed to delete upload %s: %w", mediaID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Record, error) {
	var rec Record
	var category string
	if err := s.Scan(&rec.AttachmentID, &rec.MediaID, &category, &rec.ObjectKey, &rec.ContentType, &rec.Size, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Category = media.Category(category)
	return &rec, nil
}
