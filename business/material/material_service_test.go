//go:build !integration

package material

import (
	"context"
	"errors"
	"testing"

	"github.com/taomoai/tesa-PDA/domain"
)

type fakeMaterialRepo struct {
	materials  []domain.Material
	properties []domain.MaterialProperty
}

func (f *fakeMaterialRepo) FindAll(ctx context.Context) ([]domain.Material, error) {
	return f.materials, nil
}

func (f *fakeMaterialRepo) FindActiveByCategory(ctx context.Context, category string) ([]domain.Material, error) {
	out := make([]domain.Material, 0)
	for _, m := range f.materials {
		if m.Category == category && m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMaterialRepo) FindByNART(ctx context.Context, nart string) (domain.Material, error) {
	for _, m := range f.materials {
		if m.NART == nart {
			return m, nil
		}
	}
	return domain.Material{}, domain.ErrNotFound
}

func (f *fakeMaterialRepo) FindPropertiesByNART(ctx context.Context, nart string) ([]domain.MaterialProperty, error) {
	out := make([]domain.MaterialProperty, 0)
	for _, p := range f.properties {
		if p.NART == nart {
			out = append(out, p)
		}
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func testRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{
		materials: []domain.Material{
			{NART: "B-050", Category: domain.MaterialCategoryBacking, MaterialName: "PET film 50", Thickness: 50, IsActive: true},
			{NART: "B-100", Category: domain.MaterialCategoryBacking, MaterialName: "PET film 100", Thickness: 100, IsActive: false},
			{NART: "A-040", Category: domain.MaterialCategoryAdhesive, MaterialName: "acrylic low tack", PeelAdhesion: 4, IsActive: true},
		},
		properties: []domain.MaterialProperty{
			{NART: "B-050", PropertyKey: "backing##thickness##", Value: ptr(50)},
			{NART: "B-050", PropertyKey: "backing##elongation##", Value: ptr(120)},
			{NART: "A-040", PropertyKey: "adhesive##peel adhesion (n/cm)##sus##", Value: ptr(4)},
		},
	}
}

func TestGetAllMaterials(t *testing.T) {
	svc := NewMaterialService(testRepo())

	all, err := svc.GetAllMaterials(context.Background(), "")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 materials, got %d", len(all))
	}
}

func TestGetAllMaterialsByCategory(t *testing.T) {
	svc := NewMaterialService(testRepo())

	backings, err := svc.GetAllMaterials(context.Background(), domain.MaterialCategoryBacking)
	if err != nil {
		t.Fatalf("get backings: %v", err)
	}
	// inactive B-100 is excluded
	if len(backings) != 1 || backings[0].NART != "B-050" {
		t.Errorf("expected active backing B-050 only, got %+v", backings)
	}
}

func TestGetAllMaterialsRejectsUnknownCategory(t *testing.T) {
	svc := NewMaterialService(testRepo())

	if _, err := svc.GetAllMaterials(context.Background(), "primer"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestGetMaterialByNART(t *testing.T) {
	svc := NewMaterialService(testRepo())

	m, props, err := svc.GetMaterialByNART(context.Background(), "B-050")
	if err != nil {
		t.Fatalf("get material: %v", err)
	}
	if m.MaterialName != "PET film 50" {
		t.Errorf("unexpected material: %+v", m)
	}
	if len(props) != 2 {
		t.Errorf("expected 2 properties, got %d", len(props))
	}
}

func TestGetMaterialByNARTNotFound(t *testing.T) {
	svc := NewMaterialService(testRepo())

	_, _, err := svc.GetMaterialByNART(context.Background(), "B-404")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, _, err := svc.GetMaterialByNART(context.Background(), ""); err == nil {
		t.Error("expected error for empty nart")
	}
}
