package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/shoreline/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
	errInvalid   = errors.New("invalid")
)

func TestMapError(t *testing.T) {
	all := repository.Errors{NotFound: errNotFound, Duplicate: errDuplicate, Invalid: errInvalid}
	other := errors.New("connection reset")
	fkViolation := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name   string
		err    error
		domain repository.Errors
		want   error
	}{
		{"nil", nil, all, nil},
		{"no rows", sql.ErrNoRows, all, errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, all, errDuplicate},
		{"check violation", &pgconn.PgError{Code: "23514", Message: "latitude out of range"}, all, errInvalid},
		{"not null violation", &pgconn.PgError{Code: "23502"}, all, errInvalid},
		{"unmapped pg code", fkViolation, all, fkViolation},
		{"unmapped class", &pgconn.PgError{Code: "23505"}, repository.Errors{NotFound: errNotFound}, nil},
		{"other", other, all, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, tt.domain)
			switch {
			case tt.err == nil:
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
			case tt.want == nil:
				if got != tt.err {
					t.Errorf("got %v, want original error", got)
				}
			case !errors.Is(got, tt.want):
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type item struct {
	ID   int
	Name string
}

func scanItem(s repository.Scanner) (item, error) {
	var it item
	err := s.Scan(&it.ID, &it.Name)
	return it, err
}

func newDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	it, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (item, error) {
		return repository.QueryOne(ctx, tx,
			"INSERT INTO items(id, name) VALUES ($1, $2) RETURNING id, name",
			[]any{1, "bottle"}, scanItem)
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if it.Name != "bottle" {
		t.Errorf("name: got %s", it.Name)
	}

	boom := errors.New("boom")
	_, err = repository.WithTx(ctx, db, func(tx *sql.Tx) (item, error) {
		if _, err := tx.ExecContext(ctx, "INSERT INTO items(id, name) VALUES (2, 'cap')"); err != nil {
			return item{}, err
		}
		return item{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("rollback: got %v, want boom", err)
	}

	items, err := repository.QueryMany(ctx, db, "SELECT id, name FROM items ORDER BY id", nil, scanItem)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("rolled back insert persisted: %v", items)
	}
}

func TestQueryOneNoRows(t *testing.T) {
	db := newDB(t)

	_, err := repository.QueryOne(context.Background(), db, "SELECT id, name FROM items WHERE id = $1", []any{9}, scanItem)
	if !errors.Is(repository.MapError(err, repository.Errors{NotFound: errNotFound}), errNotFound) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestQueryManyEmpty(t *testing.T) {
	db := newDB(t)

	items, err := repository.QueryMany(context.Background(), db, "SELECT id, name FROM items", nil, scanItem)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("got %v, want empty non-nil slice", items)
	}
}
