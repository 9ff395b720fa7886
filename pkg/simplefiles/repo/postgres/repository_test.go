package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-files/pkg/simplefiles"
)

var fileColumns = []string{"id", "title", "description", "folder", "filename", "created_date"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestRepository_Save(t *testing.T) {
	mock, repo := newMock(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO files`).
		WithArgs(pgxmock.AnyArg(), "Invoice", "Q1", "docs", "1700000000000-invoice.pdf", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := repo.Save(ctx, &simplefiles.FileRecord{
		Title:       "Invoice",
		Description: "Q1",
		Folder:      "docs",
		StoredName:  "1700000000000-invoice.pdf",
		CreatedDate: created,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "docs", saved.Folder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveKeepsID(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`INSERT INTO files`).
		WithArgs(id, "", "", "docs", "1-a.txt", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := repo.Save(context.Background(), &simplefiles.FileRecord{
		ID: id, Folder: "docs", StoredName: "1-a.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveError(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`INSERT INTO files`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "files" does not exist`})

	_, err := repo.Save(context.Background(), &simplefiles.FileRecord{Folder: "docs", StoredName: "1-a.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration required")
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM files WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(fileColumns).
			AddRow(id, "Invoice", "Q1", "docs", "1700000000000-invoice.pdf", created))

	record, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "Invoice", record.Title)
	assert.Equal(t, "1700000000000-invoice.pdf", record.StoredName)
	assert.Equal(t, created, record.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDNotFound(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM files WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, simplefiles.ErrFileNotFound)
	assert.ErrorIs(t, err, simplefiles.ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAll(t *testing.T) {
	mock, repo := newMock(t)
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM files ORDER BY created_at, id`).
		WillReturnRows(pgxmock.NewRows(fileColumns).
			AddRow(first, "a", "", "docs", "1-a.txt", created).
			AddRow(second, "b", "", "docs", "2-b.txt", created))

	records, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0].ID)
	assert.Equal(t, second, records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAllEmpty(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM files`).
		WillReturnRows(pgxmock.NewRows(fileColumns))

	records, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRepository_FindAllError(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM files`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find all files")
}

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db?sslmode=disable", "pgx5://u:p@localhost:5432/db?sslmode=disable"},
		{"postgresql://u:p@localhost/db", "pgx5://u:p@localhost/db"},
		{"pgx5://u:p@localhost/db", "pgx5://u:p@localhost/db"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MigrationURL(tt.in))
		})
	}
}
