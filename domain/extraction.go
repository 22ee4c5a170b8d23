package domain

// Types for the extraction-result formatter. These mirror the upstream
// document-extraction payloads and are never persisted.

// ExtractionBasis records where a field value was read from in the source
// document. PageNumber stays loosely typed because upstream emits it as a
// number or a string depending on the document.
type ExtractionBasis struct {
	FieldName   string      `json:"field_name"`
	Value       interface{} `json:"value"`
	Basis       string      `json:"basis,omitempty"`
	Context     string      `json:"context,omitempty"`
	Reasoning   string      `json:"reasoning,omitempty"`
	PageNumber  interface{} `json:"page_number,omitempty"`
	Coordinates interface{} `json:"coordinates,omitempty"`
}

// DrawingImage identifies one source page image.
type DrawingImage struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	PageNumber int    `json:"page_number"`
}

// FeatureRef maps an extraction section name to an externally assigned
// feature id.
type FeatureRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FieldResult is the per-field output cell of the formatter.
type FieldResult struct {
	Value      interface{} `json:"value"`
	PageNumber int         `json:"page_number"`
	Reasoning  string      `json:"reasoning"`
}

// FieldResultSet wraps the fields of one section; the result array of a
// feature carries exactly one of these.
type FieldResultSet struct {
	Result map[string]FieldResult `json:"result"`
}

// FeatureResult groups the fields of one extraction section.
type FeatureResult struct {
	FeatureID string           `json:"feature_id"`
	DrawingID string           `json:"drawing_id"`
	Result    []FieldResultSet `json:"result"`
}

// ProductDocument is the formatter's terminal output.
type ProductDocument struct {
	ProductID string          `json:"product_id"`
	Features  []FeatureResult `json:"features"`
}
