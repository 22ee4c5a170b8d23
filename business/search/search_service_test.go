//go:build !integration

package search

import (
	"context"
	"testing"

	"github.com/taomoai/tesa-PDA/domain"
)

type fakeProductRepo struct {
	products   []domain.TapeProduct
	properties []domain.ProductProperty
	mappings   []domain.ItemNameMapping
}

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]domain.TapeProduct, error) {
	return f.products, nil
}

func (f *fakeProductRepo) FindByNART(ctx context.Context, nart string) (domain.TapeProduct, error) {
	for _, p := range f.products {
		if p.NART == nart {
			return p, nil
		}
	}
	return domain.TapeProduct{}, domain.ErrNotFound
}

func (f *fakeProductRepo) FindPropertiesByKeys(ctx context.Context, keys []string) ([]domain.ProductProperty, error) {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	out := make([]domain.ProductProperty, 0)
	for _, pp := range f.properties {
		if wanted[pp.PropertyKey] {
			out = append(out, pp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindPropertiesByNART(ctx context.Context, nart string) ([]domain.ProductProperty, error) {
	out := make([]domain.ProductProperty, 0)
	for _, pp := range f.properties {
		if pp.NART == nart {
			out = append(out, pp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindItemNameMappings(ctx context.Context) ([]domain.ItemNameMapping, error) {
	return f.mappings, nil
}

func ptr(v float64) *float64 { return &v }

func prop(nart, key string, value *float64, text string) domain.ProductProperty {
	return domain.ProductProperty{NART: nart, PropertyKey: key, Value: value, TextValue: text}
}

// three packaging tapes with thickness and peel adhesion measurements
func testRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: []domain.TapeProduct{
			{NART: "N-001", ProductName: "tesa 4124", LabelL1: "packaging", LabelL2: "carton sealing", Colour: "transparent / clear"},
			{NART: "N-002", ProductName: "tesa 4289", LabelL1: "packaging", LabelL2: "strapping", Colour: "yellow"},
			{NART: "N-003", ProductName: "tesa 50577", LabelL1: "masking", LabelL2: "general", Colour: "light grey"},
		},
		properties: []domain.ProductProperty{
			prop("N-001", "P4433", ptr(65), ""),
			prop("N-001", "P4006", ptr(3.3), ""),
			prop("N-001", "backing_material", nil, "PVC"),
			prop("N-002", "P4433", ptr(100), ""),
			prop("N-002", "P4006", ptr(4.5), ""),
			prop("N-002", "backing_material", nil, "PET"),
			prop("N-003", "P4433", ptr(125), ""),
			// N-003 has no P4006 row
		},
		mappings: []domain.ItemNameMapping{
			{ItemNo: "P4005", ItemName: "peel adhesion cover side"},
			{ItemNo: "P4006", ItemName: "peel adhesion open side"},
			{ItemNo: "P4433", ItemName: "total thickness"},
		},
	}
}

func TestExactSearchNumericFilter(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		Filters: []PropertyFilter{{PropertyKey: "P4433", Value: ptr(65)}},
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}

	if len(results) != 1 || results[0].Product.NART != "N-001" {
		t.Fatalf("expected N-001 only, got %+v", results)
	}
	if got := results[0].Properties["P4433"]; got != 65 {
		t.Errorf("expected matched property value 65, got %g", got)
	}
}

func TestExactSearchTextFilterIgnoresCase(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		Filters: []PropertyFilter{{PropertyKey: "backing_material", TextValue: "pvc"}},
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}

	if len(results) != 1 || results[0].Product.NART != "N-001" {
		t.Fatalf("expected N-001 for pvc backing, got %+v", results)
	}
}

func TestExactSearchColourKeywords(t *testing.T) {
	svc := NewSearchService(testRepo())

	cases := []struct {
		colour string
		want   string
	}{
		{"transparent", "N-001"},
		{"clear", ""}, // not a catalog colour term, falls back to substring
		{"grey", "N-003"},
		{"gray", "N-003"},
	}

	for _, tc := range cases {
		results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{Colour: tc.colour})
		if err != nil {
			t.Fatalf("colour %s: %v", tc.colour, err)
		}

		switch tc.colour {
		case "clear":
			// "clear" matches N-001's colour label by substring
			if len(results) != 1 || results[0].Product.NART != "N-001" {
				t.Errorf("colour clear: expected N-001, got %+v", results)
			}
		default:
			if len(results) != 1 || results[0].Product.NART != tc.want {
				t.Errorf("colour %s: expected %s, got %+v", tc.colour, tc.want, results)
			}
		}
	}
}

func TestExactSearchLabels(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		LabelL1: "Packaging",
		LabelL2: "strapping",
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}

	if len(results) != 1 || results[0].Product.NART != "N-002" {
		t.Fatalf("expected N-002, got %+v", results)
	}
}

func TestExactSearchOrderingAndLimit(t *testing.T) {
	svc := NewSearchService(testRepo())

	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		LabelL1:    "packaging",
		OrderBy:    "P4433",
		Descending: true,
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 packaging products, got %d", len(results))
	}
	if results[0].Product.NART != "N-002" || results[1].Product.NART != "N-001" {
		t.Errorf("expected descending thickness order N-002, N-001; got %s, %s",
			results[0].Product.NART, results[1].Product.NART)
	}

	limited, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		LabelL1: "packaging",
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to cap results at 1, got %d", len(limited))
	}
}

func TestExactSearchMissingPropertySortsLast(t *testing.T) {
	svc := NewSearchService(testRepo())

	// all three products, ordered by open side peel adhesion; N-003 has none
	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		Filters: []PropertyFilter{{PropertyKey: "P4433", Value: nil, TextValue: ""}},
		OrderBy: "P4006",
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 products, got %d", len(results))
	}
	if results[len(results)-1].Product.NART != "N-003" {
		t.Errorf("expected product without the order-by property last, got %s",
			results[len(results)-1].Product.NART)
	}
}

func TestExactSearchRequiresAFilter(t *testing.T) {
	svc := NewSearchService(testRepo())

	if _, err := svc.ExactSearch(context.Background(), ExactSearchRequest{}); err == nil {
		t.Fatal("expected error for empty request")
	}
}

func TestExactSearchToleranceWindow(t *testing.T) {
	svc := NewSearchService(testRepo())

	// a hair inside the equality tolerance still matches
	near := 65 + 1e-10
	results, err := svc.ExactSearch(context.Background(), ExactSearchRequest{
		Filters: []PropertyFilter{{PropertyKey: "P4433", Value: &near}},
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected value within tolerance to match, got %d results", len(results))
	}

	// outside the window does not
	far := 65.001
	results, err = svc.ExactSearch(context.Background(), ExactSearchRequest{
		Filters: []PropertyFilter{{PropertyKey: "P4433", Value: &far}},
	})
	if err != nil {
		t.Fatalf("exact search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no result outside tolerance, got %d", len(results))
	}
}

func TestGetProductByNART(t *testing.T) {
	svc := NewSearchService(testRepo())

	result, err := svc.GetProductByNART(context.Background(), "N-001")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if result.Product.ProductName != "tesa 4124" {
		t.Errorf("unexpected product: %+v", result.Product)
	}
	if result.Properties["P4433"] != 65 || result.Properties["P4006"] != 3.3 {
		t.Errorf("unexpected property values: %+v", result.Properties)
	}

	if _, err := svc.GetProductByNART(context.Background(), "N-404"); err == nil {
		t.Error("expected error for unknown nart")
	}
	if _, err := svc.GetProductByNART(context.Background(), ""); err == nil {
		t.Error("expected error for empty nart")
	}
}

func TestListItemNames(t *testing.T) {
	svc := NewSearchService(testRepo())

	mappings, err := svc.ListItemNames(context.Background())
	if err != nil {
		t.Fatalf("list item names: %v", err)
	}
	if len(mappings) != 3 {
		t.Fatalf("expected 3 mappings, got %d", len(mappings))
	}
	if mappings[1].ItemNo != "P4006" || mappings[1].ItemName != "peel adhesion open side" {
		t.Errorf("unexpected mapping: %+v", mappings[1])
	}
}
