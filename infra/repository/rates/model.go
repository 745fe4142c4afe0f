package rates

import "time"

// RateSnapshot represents one day's exchange rate table for a base
// currency. The (base_currency, date) pair is the primary key; writes
// upsert so a same-day refetch overwrites the earlier entry.
type RateSnapshot struct {
	BaseCurrency string `gorm:"type:varchar(3);primaryKey"`
	Date         string `gorm:"type:varchar(10);primaryKey"`
	Rates        []byte `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the RateSnapshot model.
func (RateSnapshot) TableName() string {
	return "exchange_rates"
}
