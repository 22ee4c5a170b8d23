package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
)

type extractionService struct{}

func NewExtractionService() *extractionService {
	return &extractionService{}
}

// FormatDocument validates the raw extraction payload and renders it into
// the document response shape.
func (s *extractionService) FormatDocument(
	ctx context.Context,
	productID string,
	extraction map[string]interface{},
	images []domain.DrawingImage,
	featureRefs []domain.FeatureRef,
) (domain.ProductDocument, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when format document")
		return domain.ProductDocument{}, fmt.Errorf("context error: %w", err)
	}

	if extraction == nil {
		logger.Error("empty extraction payload", "product_id", productID)
		return domain.ProductDocument{}, errors.New("extraction payload is required")
	}

	return BuildProductDocument(productID, extraction, images, featureRefs), nil
}
