package rates

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	"github.com/fintrackr/fintrackr/pkg/repository/rates"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed rate snapshot repository.
func New(db *gorm.DB) rates.Repository {
	return &repository{db: db}
}

func (r *repository) GetForDate(ctx context.Context, base currency.Code, date string) (*rates.Snapshot, error) {
	var model RateSnapshot
	err := r.db.WithContext(ctx).
		Where("base_currency = ? AND date = ?", string(base), date).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToSnapshot(&model)
}

func (r *repository) GetLatest(ctx context.Context, base currency.Code) (*rates.Snapshot, error) {
	var model RateSnapshot
	err := r.db.WithContext(ctx).
		Where("base_currency = ?", string(base)).
		Order("date DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapModelToSnapshot(&model)
}

func (r *repository) Upsert(ctx context.Context, snapshot *rates.Snapshot) error {
	payload, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return err
	}
	model := &RateSnapshot{
		BaseCurrency: string(snapshot.Base),
		Date:         snapshot.Date,
		Rates:        payload,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "base_currency"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"rates", "updated_at"}),
	}).Create(model).Error
}

func mapModelToSnapshot(m *RateSnapshot) (*rates.Snapshot, error) {
	var table currency.RateTable
	if err := json.Unmarshal(m.Rates, &table); err != nil {
		return nil, err
	}
	return &rates.Snapshot{
		Base:  currency.Code(m.BaseCurrency),
		Date:  m.Date,
		Rates: table,
	}, nil
}

var _ rates.Repository = (*repository)(nil)
