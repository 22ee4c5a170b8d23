package extraction

import (
	"sort"
	"strconv"
	"strings"

	"github.com/taomoai/tesa-PDA/domain"
)

// sectionExtractionBasis is the well known provenance key inside an
// extracted section. Everything else under a section is a field.
const sectionExtractionBasis = "extraction_basis"

// BuildProductDocument flattens raw extraction output into the response
// shape the frontend consumes. Extraction is keyed by section name, each
// section holding an extraction_basis list (per-field provenance) plus the
// extracted field values. Sections are emitted in sorted name order so
// the output is stable for identical input.
func BuildProductDocument(
	productID string,
	extraction map[string]interface{},
	images []domain.DrawingImage,
	featureRefs []domain.FeatureRef,
) domain.ProductDocument {
	if productID == "" {
		productID = "unknown"
	}

	imagesByPage := make(map[int]string, len(images))
	for _, img := range images {
		imagesByPage[img.PageNumber] = img.ID
	}

	refsByName := make(map[string]string, len(featureRefs))
	for _, ref := range featureRefs {
		refsByName[strings.ToLower(ref.Name)] = ref.ID
	}

	names := make([]string, 0, len(extraction))
	for name := range extraction {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := domain.ProductDocument{
		ProductID: productID,
		Features:  []domain.FeatureResult{},
	}

	for _, name := range names {
		section, ok := extraction[name].(map[string]interface{})
		if !ok {
			continue
		}
		doc.Features = append(doc.Features, buildFeature(name, section, imagesByPage, refsByName))
	}

	return doc
}

func buildFeature(
	name string,
	section map[string]interface{},
	imagesByPage map[int]string,
	refsByName map[string]string,
) domain.FeatureResult {
	featureID := name
	if id, ok := refsByName[strings.ToLower(name)]; ok {
		featureID = id
	}

	basisEntries := basisList(section)
	page := sectionPage(basisEntries)

	fields := make(map[string]domain.FieldResult, len(section))
	for key, value := range section {
		if key == sectionExtractionBasis {
			continue
		}
		fields[key] = fieldResult(key, value, basisEntries, page)
	}

	return domain.FeatureResult{
		FeatureID: featureID,
		DrawingID: imagesByPage[page],
		Result:    []domain.FieldResultSet{{Result: fields}},
	}
}

// basisList decodes a section's extraction_basis into typed entries,
// skipping anything that is not an object.
func basisList(section map[string]interface{}) []domain.ExtractionBasis {
	raw, ok := section[sectionExtractionBasis].([]interface{})
	if !ok {
		return nil
	}

	entries := make([]domain.ExtractionBasis, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		fieldName, _ := entry["field_name"].(string)
		reasoning, _ := entry["reasoning"].(string)
		entries = append(entries, domain.ExtractionBasis{
			FieldName:  fieldName,
			Value:      entry["value"],
			Reasoning:  reasoning,
			PageNumber: entry["page_number"],
		})
	}
	return entries
}

// sectionPage takes the page of the first basis entry. Drawings without
// provenance default to page 1.
func sectionPage(basisEntries []domain.ExtractionBasis) int {
	if len(basisEntries) == 0 {
		return 1
	}
	return pageNumber(basisEntries[0].PageNumber, 1)
}

// fieldResult prefers the basis entry over the raw section value: its value
// (when it carries one), page number, and reasoning.
func fieldResult(key string, value interface{}, basisEntries []domain.ExtractionBasis, sectionPage int) domain.FieldResult {
	for _, entry := range basisEntries {
		if entry.FieldName != key {
			continue
		}

		v := entry.Value
		if v == nil {
			v = value
		}
		return domain.FieldResult{
			Value:      v,
			PageNumber: pageNumber(entry.PageNumber, sectionPage),
			Reasoning:  entry.Reasoning,
		}
	}

	return domain.FieldResult{
		Value:      value,
		PageNumber: sectionPage,
		Reasoning:  "",
	}
}

// pageNumber tolerates both numeric and string page numbers since the
// extraction output is loosely typed JSON.
func pageNumber(raw interface{}, fallback int) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
