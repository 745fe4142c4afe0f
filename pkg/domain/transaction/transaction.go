// Package transaction defines the transaction entity: a single income
// or expense record in its original currency, carrying a cached
// normalized amount in the owner's preferred currency.
package transaction

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type discriminates income from expense.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DateLayout is the calendar date format for transaction dates. Dates
// are plain calendar keys, never instants, so no timezone ambiguity.
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Transaction is a single money movement owned by one user.
//
// Amount and Currency are the source of truth. AmountInPreferred is a
// cached derived value: Amount converted at the rate active at the last
// write or preference migration. Only the preference migrator rewrites
// it after creation.
type Transaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Note              string
	Amount            decimal.Decimal
	Type              Type
	Category          string
	Date              string // YYYY-MM-DD
	Currency          currency.Code
	AmountInPreferred decimal.Decimal
	CreatedAt         time.Time
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// New validates the caller-supplied fields and builds a transaction.
// The normalized amount is set later by the service once rates are
// known.
func New(userID uuid.UUID, rawAmount, txType, category, date, rawCurrency, note string) (*Transaction, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", domain.ErrValidation)
	}
	t := Type(txType)
	if t != TypeIncome && t != TypeExpense {
		return nil, fmt.Errorf("%w: type must be 'income' or 'expense'", domain.ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", domain.ErrValidation)
	}
	code, ok := currency.Parse(rawCurrency)
	if !ok {
		return nil, fmt.Errorf("%w: invalid currency, must be one of: %s",
			domain.ErrValidation, currency.SupportedList())
	}
	return &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Note:      note,
		Amount:    currency.RoundStored(amount),
		Type:      t,
		Category:  category,
		Date:      date,
		Currency:  code,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Signed returns the normalized amount with the sign implied by the
// transaction type: income positive, expense negative.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.AmountInPreferred.Neg()
	}
	return t.AmountInPreferred
}
