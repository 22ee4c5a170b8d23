package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
)

// floatTolerance is the equality window for numeric property filters.
const floatTolerance = 1e-9

// ProductRepository contract interface
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.TapeProduct, error)
	FindByNART(ctx context.Context, nart string) (domain.TapeProduct, error)
	FindPropertiesByKeys(ctx context.Context, propertyKeys []string) ([]domain.ProductProperty, error)
	FindPropertiesByNART(ctx context.Context, nart string) ([]domain.ProductProperty, error)
	FindItemNameMappings(ctx context.Context) ([]domain.ItemNameMapping, error)
}

// PropertyFilter matches one product property exactly. Value is compared
// within floatTolerance; TextValue is compared case-insensitively.
type PropertyFilter struct {
	PropertyKey string   `json:"property_key"`
	Value       *float64 `json:"value,omitempty"`
	TextValue   string   `json:"text_value,omitempty"`
}

type ExactSearchRequest struct {
	Filters    []PropertyFilter `json:"filters"`
	Colour     string           `json:"colour,omitempty"`
	LabelL1    string           `json:"label_l1,omitempty"`
	LabelL2    string           `json:"label_l2,omitempty"`
	OrderBy    string           `json:"order_by,omitempty"`
	Descending bool             `json:"descending,omitempty"`
	Limit      int              `json:"limit,omitempty"`
}

// ProductResult is one matched product with the property values that
// participated in the search.
type ProductResult struct {
	Product    domain.TapeProduct `json:"product"`
	Properties map[string]float64 `json:"properties,omitempty"`
}

// colourKeywords maps catalog colour terms to the English keywords a
// product's colour label may carry.
var colourKeywords = map[string][]string{
	"transparent": {"transparent", "clear"},
	"black":       {"black"},
	"white":       {"white"},
	"red":         {"red"},
	"blue":        {"blue"},
	"green":       {"green"},
	"yellow":      {"yellow"},
	"grey":        {"grey", "gray"},
	"brown":       {"brown"},
}

type searchService struct {
	productRepo ProductRepository
}

func NewSearchService(productRepo ProductRepository) *searchService {
	return &searchService{
		productRepo: productRepo,
	}
}

// ExactSearch returns catalog products whose properties equal every filter
// value within tolerance, optionally narrowed by colour and labels.
func (s *searchService) ExactSearch(ctx context.Context, req ExactSearchRequest) ([]ProductResult, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when searching products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(req.Filters) == 0 && req.Colour == "" && req.LabelL1 == "" && req.LabelL2 == "" {
		return nil, errors.New("at least one filter is required")
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to load products", err)
		return nil, err
	}

	keys := propertyKeys(req.Filters)
	if req.OrderBy != "" {
		keys = append(keys, req.OrderBy)
	}

	propsByNART, err := s.loadProperties(ctx, keys)
	if err != nil {
		return nil, err
	}

	results := make([]ProductResult, 0)
	for _, p := range products {
		if !matchesCatalogFields(p, req) {
			continue
		}

		props := propsByNART[p.NART]
		if !matchesFilters(props, req.Filters) {
			continue
		}

		results = append(results, ProductResult{
			Product:    p,
			Properties: numericValues(props),
		})
	}

	orderResults(results, req.OrderBy, req.Descending)

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return results, nil
}

// GetProductByNART returns one product with all its properties.
func (s *searchService) GetProductByNART(ctx context.Context, nart string) (ProductResult, error) {
	if err := ctx.Err(); err != nil {
		return ProductResult{}, fmt.Errorf("context error: %w", err)
	}
	if nart == "" {
		return ProductResult{}, errors.New("nart is required")
	}

	product, err := s.productRepo.FindByNART(ctx, nart)
	if err != nil {
		logger.Error("failed to find product by nart", err)
		return ProductResult{}, err
	}

	props, err := s.productRepo.FindPropertiesByNART(ctx, nart)
	if err != nil {
		logger.Error("failed to load product properties", err)
		return ProductResult{}, err
	}

	byKey := make(map[string]domain.ProductProperty, len(props))
	for _, pp := range props {
		byKey[pp.PropertyKey] = pp
	}

	return ProductResult{Product: product, Properties: numericValues(byKey)}, nil
}

// ListItemNames returns the measurement item number to display name mapping.
func (s *searchService) ListItemNames(ctx context.Context) ([]domain.ItemNameMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	mappings, err := s.productRepo.FindItemNameMappings(ctx)
	if err != nil {
		logger.Error("failed to load item name mappings", err)
		return nil, err
	}

	return mappings, nil
}

func (s *searchService) loadProperties(ctx context.Context, keys []string) (map[string]map[string]domain.ProductProperty, error) {
	if len(keys) == 0 {
		return map[string]map[string]domain.ProductProperty{}, nil
	}

	rows, err := s.productRepo.FindPropertiesByKeys(ctx, keys)
	if err != nil {
		logger.Error("failed to load product properties", err)
		return nil, err
	}

	byNART := make(map[string]map[string]domain.ProductProperty)
	for _, row := range rows {
		if byNART[row.NART] == nil {
			byNART[row.NART] = make(map[string]domain.ProductProperty)
		}
		byNART[row.NART][row.PropertyKey] = row
	}

	return byNART, nil
}

func propertyKeys(filters []PropertyFilter) []string {
	keys := make([]string, 0, len(filters))
	for _, f := range filters {
		keys = append(keys, f.PropertyKey)
	}
	return keys
}

func matchesCatalogFields(p domain.TapeProduct, req ExactSearchRequest) bool {
	if req.LabelL1 != "" && !strings.EqualFold(p.LabelL1, req.LabelL1) {
		return false
	}
	if req.LabelL2 != "" && !strings.EqualFold(p.LabelL2, req.LabelL2) {
		return false
	}
	if req.Colour != "" && !matchesColour(p.Colour, req.Colour) {
		return false
	}
	return true
}

func matchesColour(productColour, requested string) bool {
	colour := strings.ToLower(productColour)

	keywords, ok := colourKeywords[strings.ToLower(requested)]
	if !ok {
		keywords = []string{strings.ToLower(requested)}
	}

	for _, kw := range keywords {
		if strings.Contains(colour, kw) {
			return true
		}
	}
	return false
}

func matchesFilters(props map[string]domain.ProductProperty, filters []PropertyFilter) bool {
	for _, f := range filters {
		row, ok := props[f.PropertyKey]
		if !ok {
			return false
		}

		if f.Value != nil {
			if row.Value == nil || math.Abs(*row.Value-*f.Value) > floatTolerance {
				return false
			}
			continue
		}

		if f.TextValue != "" && !strings.EqualFold(row.TextValue, f.TextValue) {
			return false
		}
	}
	return true
}

func numericValues(props map[string]domain.ProductProperty) map[string]float64 {
	if len(props) == 0 {
		return nil
	}

	out := make(map[string]float64, len(props))
	for key, row := range props {
		if row.Value != nil {
			out[key] = *row.Value
		}
	}
	return out
}

// orderResults sorts by the order-by property value, keeping catalog order
// for ties and for products missing the property.
func orderResults(results []ProductResult, orderBy string, descending bool) {
	if orderBy == "" {
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		vi, oki := results[i].Properties[orderBy]
		vj, okj := results[j].Properties[orderBy]
		if !oki || !okj {
			return oki && !okj
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
}
