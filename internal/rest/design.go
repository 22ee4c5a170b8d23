package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
	"github.com/taomoai/tesa-PDA/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	DesignHandler struct {
		validate      *validator.Validate
		designService DesignService
		timeout       time.Duration
	}

	DesignService interface {
		Propose(ctx context.Context, target domain.DesignTarget) ([]domain.PredictedProduct, error)
		Optimize(ctx context.Context, target domain.DesignTarget) (domain.OptimizationResult, error)
		GetRun(ctx context.Context, id string) (domain.DesignRun, error)
		ListRuns(ctx context.Context, limit int) ([]domain.DesignRun, error)
		GetDesignConfig(ctx context.Context, productType string) (domain.DesignConfigRow, bool, error)
		UpsertDesignConfig(ctx context.Context, row domain.DesignConfigRow) error
		UpsertModel(ctx context.Context, model *domain.RegressionModel) error
	}

	DesignTargetRequest struct {
		ProductType         string  `json:"product_type" validate:"required,oneof=single_liner double_liner"`
		Thickness           float64 `json:"thickness" validate:"required,gt=0"`
		OpenPA              float64 `json:"open_pa" validate:"required,gt=0"`
		CoverPA             float64 `json:"cover_pa" validate:"gte=0"`
		NBest               int     `json:"n_best" validate:"gte=0"`
		BackingThicknessMin float64 `json:"backing_thickness_min" validate:"gte=0"`
		BackingThicknessMax float64 `json:"backing_thickness_max" validate:"gte=0"`
	}

	DesignConfigRequest struct {
		ProductType       string  `json:"product_type" validate:"required,oneof=single_liner double_liner"`
		WThickness        float64 `json:"w_thickness" validate:"gte=0"`
		WPeelAdhesion     float64 `json:"w_peel_adhesion" validate:"gte=0"`
		CoatingWeightMin  float64 `json:"coating_weight_min" validate:"gte=0"`
		CoatingWeightMax  float64 `json:"coating_weight_max" validate:"gte=0"`
		CoatingWeightStep float64 `json:"coating_weight_step" validate:"gte=0"`
		GridPoints        int     `json:"grid_points" validate:"gte=0"`
		DefaultNBest      int     `json:"default_n_best" validate:"gte=0"`
		SolverBudgetMs    int     `json:"solver_budget_ms" validate:"gte=0"`
	}
)

func NewDesignHandler(svc DesignService) *DesignHandler {
	return &DesignHandler{
		validate:      validator.New(),
		designService: svc,
		timeout:       30 * time.Second,
	}
}

func (r DesignTargetRequest) toTarget() domain.DesignTarget {
	return domain.DesignTarget{
		ProductType:         r.ProductType,
		Thickness:           r.Thickness,
		OpenPA:              r.OpenPA,
		CoverPA:             r.CoverPA,
		NBest:               r.NBest,
		BackingThicknessMin: r.BackingThicknessMin,
		BackingThicknessMax: r.BackingThicknessMax,
	}
}

// POST /api/v1/design/proposals
func (h *DesignHandler) Propose(c echo.Context) error {
	var req DesignTargetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	proposals, err := h.designService.Propose(ctx, req.toTarget())
	metrics.DesignProposalLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		return h.designError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(proposals))
}

// POST /api/v1/design/optimize
func (h *DesignHandler) Optimize(c echo.Context) error {
	var req DesignTargetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.designService.Optimize(ctx, req.toTarget())
	if err != nil {
		return h.designError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// GET /api/v1/design/runs?limit=20
func (h *DesignHandler) ListRuns(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	runs, err := h.designService.ListRuns(ctx, limit)
	if err != nil {
		logger.Error("Failed to list design runs", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}

// GET /api/v1/design/runs/:id
func (h *DesignHandler) GetRun(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	run, err := h.designService.GetRun(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "design run not found"})
		}
		logger.Error("Failed to get design run", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}

// GET /api/v1/design/config?product_type=single_liner
func (h *DesignHandler) GetConfig(c echo.Context) error {
	productType := c.QueryParam("product_type")
	if productType == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "product_type is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	row, found, err := h.designService.GetDesignConfig(ctx, productType)
	if err != nil {
		logger.Error("Failed to get design config", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "design config not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(row))
}

// PUT /api/v1/design/config
func (h *DesignHandler) UpsertConfig(c echo.Context) error {
	var req DesignConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	row := domain.DesignConfigRow{
		ProductType:       req.ProductType,
		WThickness:        req.WThickness,
		WPeelAdhesion:     req.WPeelAdhesion,
		CoatingWeightMin:  req.CoatingWeightMin,
		CoatingWeightMax:  req.CoatingWeightMax,
		CoatingWeightStep: req.CoatingWeightStep,
		GridPoints:        req.GridPoints,
		DefaultNBest:      req.DefaultNBest,
		SolverBudgetMs:    req.SolverBudgetMs,
	}
	if err := h.designService.UpsertDesignConfig(ctx, row); err != nil {
		logger.Error("Failed to upsert design config", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "design config saved",
		"config":  row,
	})
}

// PUT /api/v1/design/models
func (h *DesignHandler) UpsertModel(c echo.Context) error {
	var model domain.RegressionModel
	if err := c.Bind(&model); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.designService.UpsertModel(ctx, &model); err != nil {
		logger.Error("Failed to upsert regression model", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "model saved",
		"item_no": model.ItemNo,
	})
}

func (h *DesignHandler) designError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrModelNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrNoMatchFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrInfeasible):
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: "design request timed out"})
	}

	logger.Error("Design request failed", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}
