package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.TapeProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.TapeProduct
	err := r.DB.WithContext(ctx).Order("nart ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindByNART(ctx context.Context, nart string) (domain.TapeProduct, error) {
	if err := ctx.Err(); err != nil {
		return domain.TapeProduct{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.TapeProduct
	err := r.DB.WithContext(ctx).Where("nart = ?", nart).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TapeProduct{}, domain.ErrNotFound
		}
		return domain.TapeProduct{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) FindPropertiesByKeys(ctx context.Context, keys []string) ([]domain.ProductProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	var properties []domain.ProductProperty
	err := r.DB.WithContext(ctx).
		Where("property_key IN ?", keys).
		Order("nart ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find product properties: %w", err)
	}

	return properties, nil
}

func (r *ProductRepository) FindItemNameMappings(ctx context.Context) ([]domain.ItemNameMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var mappings []domain.ItemNameMapping
	err := r.DB.WithContext(ctx).Order("item_no ASC").Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find item name mappings: %w", err)
	}

	return mappings, nil
}

func (r *ProductRepository) FindPropertiesByNART(ctx context.Context, nart string) ([]domain.ProductProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var properties []domain.ProductProperty
	err := r.DB.WithContext(ctx).
		Where("nart = ?", nart).
		Order("property_key ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find product properties: %w", err)
	}

	return properties, nil
}
