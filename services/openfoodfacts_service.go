package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Matt9117/Intolerancies/models"
)

// ErrProductNotFound is returned once every configured endpoint has been
// tried without a hit.
var ErrProductNotFound = errors.New("product not found")

type OpenFoodFactsService struct {
	endpoints []string
	lang      string
	client    *http.Client
}

// NewOpenFoodFactsService reads the regional endpoint preference from the
// environment. The national database is tried before the global one.
func NewOpenFoodFactsService() *OpenFoodFactsService {
	endpoints := []string{
		"https://sk.openfoodfacts.org",
		"https://world.openfoodfacts.org",
	}
	if raw := os.Getenv("OFF_ENDPOINTS"); raw != "" {
		endpoints = endpoints[:0]
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				endpoints = append(endpoints, strings.TrimRight(e, "/"))
			}
		}
	}
	lang := os.Getenv("OFF_LANG")
	if lang == "" {
		lang = "sk"
	}
	return &OpenFoodFactsService{
		endpoints: endpoints,
		lang:      lang,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// offProductResponse mirrors the v2 product payload. Only status==1 with a
// product body counts as a hit.
type offProductResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offProduct struct {
	ProductName       string   `json:"product_name"`
	Brands            string   `json:"brands"`
	IngredientsTextSk string   `json:"ingredients_text_sk"`
	IngredientsTextEn string   `json:"ingredients_text_en"`
	IngredientsText   string   `json:"ingredients_text"`
	AllergensTags     []string `json:"allergens_tags"`
	Traces            string   `json:"traces"`
	TracesTags        []string `json:"traces_tags"`
	Labels            string   `json:"labels"`
	LabelsTags        []string `json:"labels_tags"`
	Lang              string   `json:"lang"`
}

// Lookup queries the endpoints in preference order and returns the first
// successful match normalized into a ProductRecord, or ErrProductNotFound
// once all are exhausted.
func (s *OpenFoodFactsService) Lookup(code string) (*models.ProductRecord, error) {
	for _, endpoint := range s.endpoints {
		u := fmt.Sprintf("%s/api/v2/product/%s.json", endpoint, code)

		resp, err := s.client.Get(u)
		if err != nil {
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		var pr offProductResponse
		if err := json.Unmarshal(body, &pr); err != nil {
			continue
		}
		if pr.Status != 1 || pr.Product == nil {
			continue
		}
		return s.normalize(code, pr.Product), nil
	}
	return nil, ErrProductNotFound
}

// normalize resolves the loosely-typed payload once at ingestion: localized
// ingredient text preferred over the generic field, tag slices folded into
// the claim and trace strings.
func (s *OpenFoodFactsService) normalize(code string, p *offProduct) *models.ProductRecord {
	ingredients := pickText(p.IngredientsTextSk, p.IngredientsTextEn, p.IngredientsText)

	traces := joinFields(p.Traces, strings.Join(p.TracesTags, " "))
	claims := joinFields(p.Labels, strings.Join(p.LabelsTags, " "), traces)

	lang := p.Lang
	if lang == "" {
		lang = s.lang
	}

	return &models.ProductRecord{
		Code:           code,
		Name:           strings.TrimSpace(p.ProductName),
		Brand:          strings.TrimSpace(p.Brands),
		IngredientText: ingredients,
		AllergenTags:   p.AllergensTags,
		LabelClaims:    claims,
		Traces:         traces,
		Lang:           lang,
	}
}

func pickText(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func joinFields(fields ...string) string {
	var parts []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
