package models

// ProductRecord is the normalized view of one Open Food Facts product.
// It is built once at ingestion (field-preference chain applied there) and
// never mutated afterwards; only a summary survives into history.
type ProductRecord struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	IngredientText string   `json:"ingredient_text"`
	AllergenTags   []string `json:"allergen_tags"`
	// LabelClaims is labels + traces + traces_tags joined into one string,
	// searched for declared-safe patterns like "bez lepku" / "gluten-free".
	LabelClaims string `json:"label_claims"`
	// Traces carries the "may contain" declarations on their own, so trace
	// matches can downgrade without ever producing a hard avoid.
	Traces string `json:"traces"`
	Lang   string `json:"lang"`
}
