package transaction

import (
	"context"
	"errors"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	domaintx "github.com/fintrackr/fintrackr/pkg/domain/transaction"
	"github.com/fintrackr/fintrackr/pkg/dto"
	"github.com/fintrackr/fintrackr/pkg/repository/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a gorm-backed transaction repository.
func New(db *gorm.DB) transaction.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *domaintx.Transaction) error {
	return r.db.WithContext(ctx).Create(mapEntityToModel(tx)).Error
}

// filtered applies the user scope and list filters shared by List and
// its count query.
func filtered(db *gorm.DB, userID uuid.UUID, filter dto.ListFilter) *gorm.DB {
	q := db.Where("user_id = ?", userID)
	if len(filter.Category) >= dto.MinCategoryFilterLen {
		q = q.Where("category ILIKE ?", "%"+filter.Category+"%")
	}
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	return q
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, filter dto.ListFilter, page dto.Page) ([]*domaintx.Transaction, int64, error) {
	var total int64
	if err := filtered(r.db.WithContext(ctx).Model(&Transaction{}), userID, filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := filtered(r.db.WithContext(ctx), userID, filter).
		Order("date DESC, created_at DESC, id DESC")
	if page.Paginated() {
		q = q.Limit(*page.Limit).Offset((*page.Number - 1) * *page.Limit)
	}

	var models []Transaction
	if err := q.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*domaintx.Transaction, 0, len(models))
	for i := range models {
		items = append(items, mapModelToEntity(&models[i]))
	}
	return items, total, nil
}

func (r *repository) ListAll(ctx context.Context, userID uuid.UUID) ([]*domaintx.Transaction, error) {
	var models []Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]*domaintx.Transaction, 0, len(models))
	for i := range models {
		items = append(items, mapModelToEntity(&models[i]))
	}
	return items, nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	// Scoping the delete to the owner makes a foreign row and a missing
	// row indistinguishable: both report not found.
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repository) SumSigned(ctx context.Context, userID uuid.UUID, date string) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN amount_in_preferred_currency ELSE -amount_in_preferred_currency END), 0)").
		Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("date = ?", date)
	}

	var balance decimal.Decimal
	if err := q.Scan(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *repository) UpdateNormalizedAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&Transaction{}).
		Where("id = ?", id).
		Update("amount_in_preferred_currency", amount).Error
}

func mapEntityToModel(tx *domaintx.Transaction) *Transaction {
	return &Transaction{
		ID:                        tx.ID,
		UserID:                    tx.UserID,
		Note:                      tx.Note,
		Amount:                    tx.Amount,
		Type:                      string(tx.Type),
		Category:                  tx.Category,
		Date:                      tx.Date,
		Currency:                  string(tx.Currency),
		AmountInPreferredCurrency: tx.AmountInPreferred,
		CreatedAt:                 tx.CreatedAt,
	}
}

func mapModelToEntity(m *Transaction) *domaintx.Transaction {
	return &domaintx.Transaction{
		ID:                m.ID,
		UserID:            m.UserID,
		Note:              m.Note,
		Amount:            m.Amount,
		Type:              domaintx.Type(m.Type),
		Category:          m.Category,
		Date:              m.Date,
		Currency:          currency.Code(m.Currency),
		AmountInPreferred: m.AmountInPreferredCurrency,
		CreatedAt:         m.CreatedAt,
	}
}

var _ transaction.Repository = (*repository)(nil)
