package contributions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/pkg/pagination"
)

// System defines the public contract for contribution domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Contribution], error)

	Find(ctx context.Context, id uuid.UUID) (*Contribution, error)
	Create(ctx context.Context, cmd CreateCommand) (*Contribution, error)

	// Classify applies a review to a pending contribution. Every reviewed
	// field, the status, and classified_at change in one statement or not at all.
	Classify(ctx context.Context, id uuid.UUID, cmd ClassifyCommand) (*Contribution, error)
}
