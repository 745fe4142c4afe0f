package transaction

import (
	domaintx "github.com/fintrackr/fintrackr/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// CreateTransactionInput represents the request body for recording a
// transaction. Amount arrives as a string to avoid float mangling.
type CreateTransactionInput struct {
	Amount   string `json:"amount" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=income expense"`
	Category string `json:"category" validate:"required,max=100"`
	Date     string `json:"date" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

// TransactionView is the JSON shape of one transaction.
type TransactionView struct {
	ID                string          `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Category          string          `json:"category"`
	Date              string          `json:"date"`
	Currency          string          `json:"currency"`
	AmountInPreferred decimal.Decimal `json:"amount_in_preferred_currency"`
	Note              string          `json:"note,omitempty"`
}

func newView(t *domaintx.Transaction) TransactionView {
	return TransactionView{
		ID:                t.ID.String(),
		Amount:            t.Amount,
		Type:              string(t.Type),
		Category:          t.Category,
		Date:              t.Date,
		Currency:          string(t.Currency),
		AmountInPreferred: t.AmountInPreferred,
		Note:              t.Note,
	}
}

func newViews(ts []*domaintx.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, newView(t))
	}
	return views
}
