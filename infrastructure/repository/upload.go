package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const (
	uploadsTable = "dataset_uploads"

	defaultUploadListLimit = 50
)

type UploadRepository interface {
	Save(ctx context.Context, entry *domain.UploadEntry) error
	ListByDataset(ctx context.Context, dataset string, limit int) ([]*domain.UploadEntry, error)
}

type uploadRepository struct {
	conn *postgres.Connection
}

func NewUploadRepository(conn *postgres.Connection) UploadRepository {
	return &uploadRepository{
		conn: conn,
	}
}

func (r *uploadRepository) Save(ctx context.Context, entry *domain.UploadEntry) error {
	query := squirrel.
		Insert(uploadsTable).
		Columns("id", "dataset", "filename", "row_count", "total_rows", "columns", "created_at").
		Values(entry.ID, entry.Dataset, entry.Filename, entry.RowCount, entry.TotalRows, pq.Array(entry.Columns), entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir consulta: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("erro ao registrar upload: %w", err)
	}

	return nil
}

func (r *uploadRepository) ListByDataset(ctx context.Context, dataset string, limit int) ([]*domain.UploadEntry, error) {
	if limit <= 0 {
		limit = defaultUploadListLimit
	}

	query := squirrel.
		Select("id", "dataset", "filename", "row_count", "total_rows", "columns", "created_at").
		From(uploadsTable).
		Where(squirrel.Eq{"dataset": dataset}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir consulta: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar histórico de uploads: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.UploadEntry, 0)
	for rows.Next() {
		var entry domain.UploadEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Dataset,
			&entry.Filename,
			&entry.RowCount,
			&entry.TotalRows,
			pq.Array(&entry.Columns),
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return entries, nil
}
