package repository

import (
	"context"

	"walkindesk/internal/domain"

	"gorm.io/gorm"
)

type PicklistRepository struct {
	db *gorm.DB
}

func NewPicklistRepository(db *gorm.DB) *PicklistRepository {
	return &PicklistRepository{db: db}
}

func (r *PicklistRepository) Values(ctx context.Context, recordType, field string) ([]domain.PicklistOption, error) {
	var rows []picklistValueModel
	tx := r.db.WithContext(ctx).
		Where("record_type = ? AND field = ?", recordType, field).
		Order("sort_order ASC, label ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.PicklistOption, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.PicklistOption{Label: m.Label, Value: m.Value})
	}
	return out, nil
}

func (r *PicklistRepository) Add(ctx context.Context, recordType, field string, options ...domain.PicklistOption) error {
	rows := make([]picklistValueModel, 0, len(options))
	for i, o := range options {
		rows = append(rows, picklistValueModel{
			RecordType: recordType,
			Field:      field,
			Label:      o.Label,
			Value:      o.Value,
			SortOrder:  i,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
