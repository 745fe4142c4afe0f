// Package transaction defines the persistence contract for transaction
// records. All operations are scoped to the owning user.
package transaction

import (
	"context"

	"github.com/fintrackr/fintrackr/pkg/domain/transaction"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists transactions.
type Repository interface {
	Create(ctx context.Context, tx *transaction.Transaction) error

	// List returns the filtered page ordered by date descending then id
	// descending, plus the total count of matching rows across all
	// pages.
	List(ctx context.Context, userID uuid.UUID, filter dto.ListFilter, page dto.Page) ([]*transaction.Transaction, int64, error)

	// ListAll returns every transaction of the user, used by the
	// preference migrator.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error)

	// Delete removes an owned row. A miss, including rows owned by
	// someone else, returns domain.ErrNotFound.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// SumSigned computes the signed sum of normalized amounts (income
	// positive, expense negative), optionally restricted to one
	// calendar date. An empty set sums to zero.
	SumSigned(ctx context.Context, userID uuid.UUID, date string) (decimal.Decimal, error)

	// UpdateNormalizedAmount rewrites the cached converted amount of a
	// single row; only the preference migrator calls this.
	UpdateNormalizedAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}
