package history

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository stores and lists served predictions
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit, offset int) ([]Entry, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed history repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, e *Entry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	return nil
}

// List returns the newest entries first along with the total count. Ties on
// created_at are broken by id so pages never overlap.
func (r *gormRepository) List(ctx context.Context, limit, offset int) ([]Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Entry{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	entries := make([]Entry, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, total, nil
}
