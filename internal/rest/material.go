package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	MaterialHandler struct {
		materialService MaterialService
		timeout         time.Duration
	}

	MaterialService interface {
		GetAllMaterials(ctx context.Context, category string) ([]domain.Material, error)
		GetMaterialByNART(ctx context.Context, nart string) (domain.Material, []domain.MaterialProperty, error)
	}
)

func NewMaterialHandler(svc MaterialService) *MaterialHandler {
	return &MaterialHandler{
		materialService: svc,
		timeout:         10 * time.Second,
	}
}

// GET /api/v1/materials?category=backing
func (h *MaterialHandler) GetAllMaterials(c echo.Context) error {
	category := c.QueryParam("category")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	materials, err := h.materialService.GetAllMaterials(ctx, category)
	if err != nil {
		if err.Error() == "invalid material category" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get materials", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(materials))
}

// GET /api/v1/materials/:nart
func (h *MaterialHandler) GetMaterialByNART(c echo.Context) error {
	nart := c.Param("nart")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	material, properties, err := h.materialService.GetMaterialByNART(ctx, nart)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "material not found"})
		}
		logger.Error("Failed to get material by nart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully find material by nart",
		"material":   material,
		"properties": properties,
	})
}
