package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taomoai/tesa-PDA/business/search"
	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
	"github.com/taomoai/tesa-PDA/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SearchHandler struct {
		validate      *validator.Validate
		searchService SearchService
		timeout       time.Duration
	}

	SearchService interface {
		ExactSearch(ctx context.Context, req search.ExactSearchRequest) ([]search.ProductResult, error)
		ApproximateSearch(ctx context.Context, req search.ApproximateSearchRequest) ([]search.ScoredProduct, error)
		GetProductByNART(ctx context.Context, nart string) (search.ProductResult, error)
		ListItemNames(ctx context.Context) ([]domain.ItemNameMapping, error)
	}
)

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{
		validate:      validator.New(),
		searchService: svc,
		timeout:       10 * time.Second,
	}
}

// POST /api/v1/search/products
func (h *SearchHandler) ExactSearch(c echo.Context) error {
	var req search.ExactSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.searchService.ExactSearch(ctx, req)
	if err != nil {
		if err.Error() == "at least one filter is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Exact search failed", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.SearchRequestsTotal.WithLabelValues("exact").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}

// POST /api/v1/search/products/approximate
func (h *SearchHandler) ApproximateSearch(c echo.Context) error {
	var req search.ApproximateSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.searchService.ApproximateSearch(ctx, req)
	if err != nil {
		logger.Error("Approximate search failed", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.SearchRequestsTotal.WithLabelValues("approximate").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}

// GET /api/v1/products/:nart
func (h *SearchHandler) GetProductByNART(c echo.Context) error {
	nart := c.Param("nart")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.searchService.GetProductByNART(ctx, nart)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
		}
		logger.Error("Failed to get product by nart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by nart",
		"product": result,
	})
}

// GET /api/v1/products/item-names
func (h *SearchHandler) ListItemNames(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	mappings, err := h.searchService.ListItemNames(ctx)
	if err != nil {
		logger.Error("Failed to list item names", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(mappings))
}
