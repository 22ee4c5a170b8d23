package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ExtractionHandler struct {
		validate          *validator.Validate
		extractionService ExtractionService
		timeout           time.Duration
	}

	ExtractionService interface {
		FormatDocument(
			ctx context.Context,
			productID string,
			extraction map[string]interface{},
			images []domain.DrawingImage,
			featureRefs []domain.FeatureRef,
		) (domain.ProductDocument, error)
	}

	FormatDocumentRequest struct {
		ProductID   string                 `json:"product_id"`
		Extraction  map[string]interface{} `json:"extraction" validate:"required"`
		Images      []domain.DrawingImage  `json:"images"`
		FeatureRefs []domain.FeatureRef    `json:"feature_refs"`
	}
)

func NewExtractionHandler(svc ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{
		validate:          validator.New(),
		extractionService: svc,
		timeout:           10 * time.Second,
	}
}

// POST /api/v1/extraction/format
func (h *ExtractionHandler) FormatDocument(c echo.Context) error {
	var req FormatDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	doc, err := h.extractionService.FormatDocument(ctx, req.ProductID, req.Extraction, req.Images, req.FeatureRefs)
	if err != nil {
		logger.Error("Failed to format extraction document", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(doc))
}
