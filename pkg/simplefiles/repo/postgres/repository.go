package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplefiles.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: file already exists: %w", operation, err)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s is missing: %w", operation, pgErr.ColumnName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - database migration required: %w", operation, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const selectColumns = `id, title, description, folder, filename, created_date`

func (r *Repository) FindAll(ctx context.Context) ([]*simplefiles.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("find all files", err)
	}
	defer rows.Close()

	records := []*simplefiles.FileRecord{}
	for rows.Next() {
		var record simplefiles.FileRecord
		if err := rows.Scan(
			&record.ID, &record.Title, &record.Description,
			&record.Folder, &record.StoredName, &record.CreatedDate); err != nil {
			return nil, r.handlePostgresError("scan file", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("find all files", err)
	}

	return records, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*simplefiles.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id = $1`

	var record simplefiles.FileRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.Title, &record.Description,
		&record.Folder, &record.StoredName, &record.CreatedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplefiles.ErrFileNotFound
		}
		return nil, r.handlePostgresError("find file", err)
	}

	return &record, nil
}

func (r *Repository) Save(ctx context.Context, record *simplefiles.FileRecord) (*simplefiles.FileRecord, error) {
	query := `
		INSERT INTO files (id, title, description, folder, filename, created_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	saved := *record
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		saved.ID, saved.Title, saved.Description,
		saved.Folder, saved.StoredName, saved.CreatedDate)
	if err != nil {
		return nil, r.handlePostgresError("save file", err)
	}

	return &saved, nil
}
