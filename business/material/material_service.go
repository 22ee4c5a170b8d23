package material

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
)

// MaterialRepository contract interface
type MaterialRepository interface {
	FindAll(ctx context.Context) ([]domain.Material, error)
	FindActiveByCategory(ctx context.Context, category string) ([]domain.Material, error)
	FindByNART(ctx context.Context, nart string) (domain.Material, error)
	FindPropertiesByNART(ctx context.Context, nart string) ([]domain.MaterialProperty, error)
}

type materialService struct {
	materialRepo MaterialRepository
}

func NewMaterialService(materialRepo MaterialRepository) *materialService {
	return &materialService{
		materialRepo: materialRepo,
	}
}

func (s *materialService) GetAllMaterials(ctx context.Context, category string) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all materials")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if category != "" {
		if category != domain.MaterialCategoryBacking &&
			category != domain.MaterialCategoryAdhesive &&
			category != domain.MaterialCategoryLiner {
			logger.Error("invalid material category", "category", category)
			return nil, errors.New("invalid material category")
		}

		materials, err := s.materialRepo.FindActiveByCategory(ctx, category)
		if err != nil {
			logger.Error("Failed to find materials by category", err)
			return nil, err
		}
		return materials, nil
	}

	materials, err := s.materialRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all materials", err)
		return nil, err
	}

	return materials, nil
}

func (s *materialService) GetMaterialByNART(ctx context.Context, nart string) (domain.Material, []domain.MaterialProperty, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get material by nart")
		return domain.Material{}, nil, fmt.Errorf("context error: %w", err)
	}

	if nart == "" {
		logger.Error("invalid material nart")
		return domain.Material{}, nil, errors.New("nart is required")
	}

	m, err := s.materialRepo.FindByNART(ctx, nart)
	if err != nil {
		logger.Error("failed to find material by nart", err)
		return domain.Material{}, nil, err
	}

	props, err := s.materialRepo.FindPropertiesByNART(ctx, nart)
	if err != nil {
		logger.Error("failed to load material properties", err)
		return domain.Material{}, nil, err
	}

	return m, props, nil
}
