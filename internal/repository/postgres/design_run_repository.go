package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taomoai/tesa-PDA/business/design"
	"github.com/taomoai/tesa-PDA/domain"

	"gorm.io/gorm"
)

type DesignRunRepository struct {
	DB *gorm.DB
}

var _ design.RunRepository = (*DesignRunRepository)(nil)

func NewDesignRunRepository(db *gorm.DB) *DesignRunRepository {
	return &DesignRunRepository{DB: db}
}

func (r *DesignRunRepository) SaveRun(ctx context.Context, run *domain.DesignRun) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to save design run: %w", err)
	}

	return nil
}

func (r *DesignRunRepository) FindRunByID(ctx context.Context, id string) (domain.DesignRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.DesignRun{}, fmt.Errorf("context error: %w", err)
	}

	var run domain.DesignRun
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DesignRun{}, domain.ErrNotFound
		}
		return domain.DesignRun{}, fmt.Errorf("failed to find design run: %w", err)
	}

	return run, nil
}

func (r *DesignRunRepository) FindRecentRuns(ctx context.Context, limit int) ([]domain.DesignRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var runs []domain.DesignRun
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find design runs: %w", err)
	}

	return runs, nil
}

func (r *DesignRunRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.DesignRun{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete design runs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
