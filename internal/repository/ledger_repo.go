package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rexe-automation/dispatch-notifier/internal/domain"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
}

// Ledger is the dedup store port. Exists and Create are the only operations
// the pipeline needs; List feeds the dashboard.
type Ledger interface {
	Exists(ctx context.Context, orderNumber string) (bool, error)
	Create(ctx context.Context, record *domain.NotificationRecord) error
	List(ctx context.Context, params ListParams) ([]domain.NotificationRecord, int64, error)
}

type GormLedgerRepo struct {
	db *gorm.DB
}

func NewGormLedgerRepo(db *gorm.DB) *GormLedgerRepo {
	return &GormLedgerRepo{db: db}
}

func (r *GormLedgerRepo) Exists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&NotifiedDeliveryModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ledger for order %q: %w", orderNumber, err)
	}
	return count > 0, nil
}

// Create inserts exactly one ledger row. A duplicate-key violation on the
// order number surfaces as domain.ErrAlreadyNotified so a lost insert race is
// never mistaken for a generic persistence failure.
func (r *GormLedgerRepo) Create(ctx context.Context, record *domain.NotificationRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is required", domain.ErrValidation)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	model := recordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%w: order %s", domain.ErrAlreadyNotified, record.OrderNumber)
		}
		return err
	}

	*record = *recordModelToDomain(model)
	return nil
}

func (r *GormLedgerRepo) List(ctx context.Context, params ListParams) ([]domain.NotificationRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&NotifiedDeliveryModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	var models []NotifiedDeliveryModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.NotificationRecord, 0, len(models))
	for i := range models {
		records = append(records, *recordModelToDomain(&models[i]))
	}

	return records, total, nil
}

func isUniqueViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
