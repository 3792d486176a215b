package food

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrFoodNotFound is returned when no food matches a search
var ErrFoodNotFound = errors.New("food not found")

// Repository reads and writes the food catalog
type Repository interface {
	FindByName(ctx context.Context, query string) (*Food, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, f *Food) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed food repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByName returns the first food whose name contains query, ignoring
// case. Other names are tried when no primary name matches.
func (r *gormRepository) FindByName(ctx context.Context, query string) (*Food, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	f, err := r.first(ctx, `LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	if !errors.Is(err, ErrFoodNotFound) {
		return f, err
	}

	aliases := r.db.WithContext(ctx).
		Model(&OtherName{}).
		Select("food_id").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	return r.first(ctx, "id IN (?)", aliases)
}

func (r *gormRepository) first(ctx context.Context, query string, args ...any) (*Food, error) {
	var f Food
	err := r.db.WithContext(ctx).
		Preload("Benefits").
		Preload("OtherNames").
		Preload("Cautions").
		Preload("NutrientBreakdown").
		Where(query, args...).
		Order("id").
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return &f, nil
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Food{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}

func (r *gormRepository) Create(ctx context.Context, f *Food) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("failed to create food %q: %w", f.Name, err)
	}
	return nil
}
