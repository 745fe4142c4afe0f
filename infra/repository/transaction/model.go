package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents a persisted transaction row.
//
// Date is stored as an ISO calendar string, not a timestamp: it is a
// plain date key with no timezone component, and ISO ordering makes
// string comparison equivalent to date comparison in range filters.
type Transaction struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1"`
	Note     string          `gorm:"size:500"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Type     string          `gorm:"type:varchar(10);not null"`
	Category string          `gorm:"size:100;not null"`
	Date     string          `gorm:"type:varchar(10);not null;index:idx_transactions_user_date,priority:2"`
	Currency string          `gorm:"type:varchar(3);not null"`

	// AmountInPreferredCurrency caches Amount converted to the owner's
	// preferred currency at last write or migration.
	AmountInPreferredCurrency decimal.Decimal `gorm:"type:numeric(20,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
