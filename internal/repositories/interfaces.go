package repositories

import (
	"context"
	"errors"

	"github.com/premiun-cakes/api/internal/domain"
)

// OrderRepository persists accepted orders keyed by their public code.
type OrderRepository interface {
	// ExistsByCode reports whether an order with the given code was
	// already stored.
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// Create stores the order. It fails with a conflict error when the
	// code is already taken.
	Create(ctx context.Context, order domain.Order) (domain.CreatedOrder, error)
}

// RepositoryError lets callers branch on storage failure categories without
// depending on the backing driver.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsNotFound()
}

// IsConflict reports whether err marks a uniqueness conflict.
func IsConflict(err error) bool {
	var re RepositoryError
	return errors.As(err, &re) && re.IsConflict()
}
