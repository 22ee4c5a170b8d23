package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{
		DB: db,
	}
}

func (r *MaterialRepository) FindAll(ctx context.Context) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var materials []domain.Material
	err := r.DB.WithContext(ctx).Order("nart ASC").Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find materials: %w", err)
	}

	return materials, nil
}

func (r *MaterialRepository) FindActiveByCategory(ctx context.Context, category string) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var materials []domain.Material
	err := r.DB.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("nart ASC").
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find materials by category: %w", err)
	}

	return materials, nil
}

func (r *MaterialRepository) FindByNART(ctx context.Context, nart string) (domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return domain.Material{}, fmt.Errorf("context error: %w", err)
	}

	var material domain.Material
	err := r.DB.WithContext(ctx).Where("nart = ?", nart).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Material{}, domain.ErrNotFound
		}
		return domain.Material{}, fmt.Errorf("failed to find material: %w", err)
	}

	return material, nil
}

func (r *MaterialRepository) FindBackingsByThickness(ctx context.Context, value, tolerance float64) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var materials []domain.Material
	err := r.DB.WithContext(ctx).
		Where("category = ? AND is_active = ? AND thickness BETWEEN ? AND ?",
			domain.MaterialCategoryBacking, true, value-tolerance, value+tolerance).
		Order("nart ASC").
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find backings by thickness: %w", err)
	}

	return materials, nil
}

func (r *MaterialRepository) FindAdhesivesByPeelAdhesion(ctx context.Context, value, tolerance float64) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var materials []domain.Material
	err := r.DB.WithContext(ctx).
		Where("category = ? AND is_active = ? AND peel_adhesion BETWEEN ? AND ?",
			domain.MaterialCategoryAdhesive, true, value-tolerance, value+tolerance).
		Order("nart ASC").
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find adhesives by peel adhesion: %w", err)
	}

	return materials, nil
}

func (r *MaterialRepository) FindPropertiesByNART(ctx context.Context, nart string) ([]domain.MaterialProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var properties []domain.MaterialProperty
	err := r.DB.WithContext(ctx).
		Where("nart = ?", nart).
		Order("property_key ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find material properties: %w", err)
	}

	return properties, nil
}
