package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModelRepository struct {
	DB *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{
		DB: db,
	}
}

func (r *ModelRepository) FindAll(ctx context.Context) ([]domain.RegressionModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var models []domain.RegressionModel
	err := r.DB.WithContext(ctx).Order("item_no ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find regression models: %w", err)
	}

	return models, nil
}

func (r *ModelRepository) FindByItemNo(ctx context.Context, itemNo string) (domain.RegressionModel, error) {
	if err := ctx.Err(); err != nil {
		return domain.RegressionModel{}, fmt.Errorf("context error: %w", err)
	}

	var model domain.RegressionModel
	err := r.DB.WithContext(ctx).Where("item_no = ?", itemNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RegressionModel{}, domain.ErrModelNotFound
		}
		return domain.RegressionModel{}, fmt.Errorf("failed to find regression model: %w", err)
	}

	return model, nil
}

func (r *ModelRepository) Upsert(ctx context.Context, model *domain.RegressionModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_no"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"target_name",
				"feature_names",
				"coefficients",
				"feature_mean",
				"feature_scale",
				"intercept",
				"updated_at",
			}),
		}).
		Create(model).Error
}
