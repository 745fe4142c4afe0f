// Package transaction provides business logic for recording, listing
// and aggregating transactions, normalizing amounts into the owner's
// preferred currency at write time.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	domaintx "github.com/fintrackr/fintrackr/pkg/domain/transaction"
	"github.com/fintrackr/fintrackr/pkg/dto"
	txrepo "github.com/fintrackr/fintrackr/pkg/repository/transaction"
	userrepo "github.com/fintrackr/fintrackr/pkg/repository/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource supplies today's rate table for a base currency. It never
// fails; degraded data quality is the provider's concern.
type RateSource interface {
	GetRates(ctx context.Context, base currency.Code) currency.RateTable
}

// Service implements transaction operations scoped to the calling user.
type Service struct {
	txs    txrepo.Repository
	users  userrepo.Repository
	rates  RateSource
	logger *slog.Logger
	now    func() time.Time
}

// New creates a transaction service.
func New(txs txrepo.Repository, users userrepo.Repository, rates RateSource, logger *slog.Logger) *Service {
	return &Service{
		txs:    txs,
		users:  users,
		rates:  rates,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput carries the caller-supplied transaction fields. Amount
// stays a string until validated into a decimal.
type CreateInput struct {
	Amount   string
	Type     string
	Category string
	Date     string
	Currency string
	Note     string
}

// Create validates the input, converts the amount into the owner's
// preferred currency at today's rate, and persists the transaction. A
// missing rate aborts the write with a conversion error; the caller
// sees which pair could not be converted.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domaintx.Transaction, error) {
	owner, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := domaintx.New(userID, input.Amount, input.Type, input.Category, input.Date, input.Currency, input.Note)
	if err != nil {
		return nil, err
	}

	normalized := tx.Amount
	if tx.Currency != owner.PreferredCurrency {
		table := s.rates.GetRates(ctx, tx.Currency)
		normalized, err = currency.Convert(tx.Amount, tx.Currency, owner.PreferredCurrency, table)
		if err != nil {
			s.logger.Error("Cannot convert transaction amount",
				"user_id", userID, "from", tx.Currency, "to", owner.PreferredCurrency, "error", err)
			return nil, fmt.Errorf("cannot convert: missing exchange rates for %s or %s: %w",
				tx.Currency, owner.PreferredCurrency, err)
		}
	}
	tx.AmountInPreferred = currency.RoundStored(normalized)

	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("Transaction created",
		"user_id", userID, "transaction_id", tx.ID, "type", tx.Type,
		"currency", tx.Currency, "amount", tx.Amount)
	return tx, nil
}

// ListInput carries the raw list query: optional pagination, category
// and type filters, and a named date window.
type ListInput struct {
	Page     *int
	Limit    *int
	Category string
	Type     string
	FilterBy string
}

// ListResult is one page of transactions plus pagination metadata.
type ListResult struct {
	Items      []*domaintx.Transaction
	Page       int
	Limit      int
	TotalPages int
	Total      int64
}

// List returns the user's transactions, filtered and newest first. When
// page or limit is absent the entire filtered set is returned as a
// single page.
func (s *Service) List(ctx context.Context, userID uuid.UUID, input ListInput) (*ListResult, error) {
	filter := dto.ListFilter{
		Category: input.Category,
		Type:     input.Type,
	}
	if input.FilterBy != "" {
		start, end, ok := ResolveWindow(input.FilterBy, s.now())
		if ok {
			filter.StartDate, filter.EndDate = start, end
		} else {
			s.logger.Warn("Unrecognized filterBy value, applying no date filter",
				"user_id", userID, "filter_by", input.FilterBy)
		}
	}

	page := dto.Page{Number: input.Page, Limit: input.Limit}
	if page.Paginated() && (*page.Number < 1 || *page.Limit < 1) {
		return nil, fmt.Errorf("%w: page and limit must be positive", domain.ErrValidation)
	}

	items, total, err := s.txs.List(ctx, userID, filter, page)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: items, Page: 1, Limit: int(total), TotalPages: 1, Total: total}
	if page.Paginated() {
		result.Page = *page.Number
		result.Limit = *page.Limit
		result.TotalPages = int(math.Ceil(float64(total) / float64(*page.Limit)))
	}
	return result, nil
}

// Delete removes an owned transaction. Rows that do not exist or belong
// to another user both report not found.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.txs.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("Transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

// Balance returns the signed sum of the user's normalized amounts,
// optionally restricted to one calendar date. An empty set is a zero
// balance, not an error.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID, date string) (decimal.Decimal, error) {
	if date != "" && !domaintx.ValidDate(date) {
		return decimal.Zero, fmt.Errorf("%w: date must be in YYYY-MM-DD format", domain.ErrValidation)
	}
	return s.txs.SumSigned(ctx, userID, date)
}
