package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/business/design"
	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DesignConfigRepository struct {
	DB *gorm.DB
}

var _ design.ConfigRepository = (*DesignConfigRepository)(nil)

func NewDesignConfigRepository(db *gorm.DB) *DesignConfigRepository {
	return &DesignConfigRepository{DB: db}
}

func (r *DesignConfigRepository) GetConfig(ctx context.Context, productType string) (domain.DesignConfigRow, bool, error) {
	var row domain.DesignConfigRow

	err := r.DB.WithContext(ctx).
		Where("product_type = ?", productType).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DesignConfigRow{}, false, nil
	}
	if err != nil {
		return domain.DesignConfigRow{}, false, fmt.Errorf("failed to find design config: %w", err)
	}

	return row, true, nil
}

func (r *DesignConfigRepository) UpsertConfig(ctx context.Context, row domain.DesignConfigRow) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"w_thickness",
				"w_peel_adhesion",
				"coating_weight_min",
				"coating_weight_max",
				"coating_weight_step",
				"grid_points",
				"default_n_best",
				"solver_budget_ms",
			}),
		}).
		Create(&row).Error
}
