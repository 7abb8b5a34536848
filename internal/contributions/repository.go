package contributions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/metrics"
	"github.com/JaimeStill/shoreline/pkg/pagination"
	"github.com/JaimeStill/shoreline/pkg/query"
	"github.com/JaimeStill/shoreline/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	recorder   metrics.Recorder
	now        func() time.Time
}

// New creates a contribution repository implementing the System interface.
// A nil recorder disables metrics.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	recorder metrics.Recorder,
) System {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &repo{
		db:         db,
		logger:     logger.With("system", "contributions"),
		pagination: pagination,
		recorder:   recorder,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Contribution], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Brand", "Manufacturer", "BeachName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count contributions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanContribution)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Contribution, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanContribution)
	if err != nil {
		return nil, repository.MapError(err, dbErrors)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Contribution, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
	}
	now := r.now().UTC()

	q := `
		INSERT INTO contributions(
			id, product_image_url, back_image_url, recycling_image_url, manufacturer_image_url,
			latitude, longitude, location_accuracy, beach_name,
			brand_suggestion, manufacturer_suggestion, plastic_type_suggestion,
			notes, contributor_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + returningColumns

	args := []any{
		cmd.ID,
		cmd.ProductImageURL,
		cmd.BackImageURL,
		cmd.RecyclingImageURL,
		cmd.ManufacturerImageURL,
		cmd.Latitude,
		cmd.Longitude,
		cmd.LocationAccuracy,
		trimmed(cmd.BeachName),
		trimmed(cmd.BrandSuggestion),
		trimmed(cmd.ManufacturerSuggestion),
		trimmed(cmd.PlasticTypeSuggestion),
		trimmed(cmd.Notes),
		cmd.ContributorID,
		StatusPending,
		now,
		now,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Contribution, error) {
		return repository.QueryOne(ctx, tx, q, args, scanContribution)
	})
	if err != nil {
		mapped := repository.MapError(err, dbErrors)
		if errors.Is(mapped, ErrDuplicate) || errors.Is(mapped, ErrInvalidContribution) {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	r.logger.Info("contribution created", "id", c.ID)
	return &c, nil
}

func (r *repo) Classify(ctx context.Context, id uuid.UUID, cmd ClassifyCommand) (*Contribution, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	status, _ := cmd.Decision.Status()

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Contribution, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, q, args, scanContribution)
		if err != nil {
			return Contribution{}, repository.MapError(err, dbErrors)
		}
		if current.Status != StatusPending {
			return Contribution{}, ErrAlreadyReviewed
		}

		beach := current.BeachName
		if cmd.BeachName != nil {
			beach = optional(*cmd.BeachName)
		}
		notes := current.Notes
		if cmd.Notes != nil {
			notes = optional(*cmd.Notes)
		}
		now := r.now().UTC()

		update := `
			UPDATE contributions
			SET brand = $1, manufacturer = $2, plastic_type = $3,
				beach_name = $4, notes = $5, status = $6,
				classified_at = $7, updated_at = $8, reviewed_by = $9, review_notes = $10
			WHERE id = $11 AND status = $12
			RETURNING ` + returningColumns

		updateArgs := []any{
			optional(cmd.Brand),
			optional(cmd.Manufacturer),
			optional(cmd.PlasticType),
			beach,
			notes,
			status,
			now,
			now,
			optional(cmd.ReviewedBy),
			optional(cmd.ReviewNotes),
			id,
			StatusPending,
		}

		updated, err := repository.QueryOne(ctx, tx, update, updateArgs, scanContribution)
		if errors.Is(err, sql.ErrNoRows) {
			return Contribution{}, ErrAlreadyReviewed
		}
		return updated, err
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyReviewed):
			r.recorder.RecordOperation(metrics.OpReview, "conflict")
			return nil, err
		default:
			r.recorder.RecordOperation(metrics.OpReview, "error")
			return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
		}
	}

	r.recorder.RecordOperation(metrics.OpReview, c.Status)
	r.logger.Info(
		"contribution reviewed",
		"id", c.ID,
		"status", c.Status,
		"reviewed_by", cmd.ReviewedBy,
	)
	return &c, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}
