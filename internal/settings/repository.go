package settings

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/JaimeStill/shoreline/pkg/query"
	"github.com/JaimeStill/shoreline/pkg/repository"
)

const rowID = 1

var projection = query.
	NewProjectionMap("public", "settings", "s").
	Project("ai_enabled", "AIEnabled").
	Project("updated_at", "UpdatedAt").
	Project("updated_by", "UpdatedBy")

var dbErrors = repository.Errors{NotFound: ErrNotFound, Invalid: ErrInvalidRequest}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// New creates a settings repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "settings"),
		now:    time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) AIEnabled(ctx context.Context) (bool, error) {
	s, err := r.Find(ctx)
	if err != nil {
		return false, err
	}
	return s.AIEnabled, nil
}

func (r *repo) Find(ctx context.Context) (*Settings, error) {
	q := "SELECT " + projection.Columns() + " FROM " + projection.Table() + " WHERE s.id = $1"

	s, err := repository.QueryOne(ctx, r.db, q, []any{rowID}, scanSettings)
	if err != nil {
		return nil, repository.MapError(err, dbErrors)
	}
	return &s, nil
}

func (r *repo) SetAIEnabled(ctx context.Context, enabled bool, updatedBy string) (*Settings, error) {
	q := `
		UPDATE settings
		SET ai_enabled = $1, updated_at = $2, updated_by = $3
		WHERE id = $4
		RETURNING ai_enabled, updated_at, updated_by`

	args := []any{enabled, r.now().UTC(), nullable(updatedBy), rowID}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Settings, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSettings)
	})
	if err != nil {
		return nil, repository.MapError(err, dbErrors)
	}

	r.logger.Info("ai suggestions toggled", "enabled", s.AIEnabled, "by", updatedBy)
	return &s, nil
}

func scanSettings(s repository.Scanner) (Settings, error) {
	var out Settings
	err := s.Scan(&out.AIEnabled, &out.UpdatedAt, &out.UpdatedBy)
	return out, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
