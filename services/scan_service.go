package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/Matt9117/Intolerancies/models"
	"github.com/Matt9117/Intolerancies/utils"
)

// ScanResult is the scan-to-verdict pipeline output. Source tells the UI
// whether the advisory service had the final word.
type ScanResult struct {
	Product models.ProductRecord `json:"product"`
	Verdict utils.Verdict        `json:"verdict"`
	Source  string               `json:"source"` // "local" | "advisory"
}

type ScanService struct {
	off      *OpenFoodFactsService
	advisory *AdvisoryService
	history  *HistoryService
}

func NewScanService(off *OpenFoodFactsService, advisory *AdvisoryService, history *HistoryService) *ScanService {
	return &ScanService{off: off, advisory: advisory, history: history}
}

// Evaluate runs the full pipeline for one product code: lookup, local
// verdict, advisory escalation when inconclusive, history insert, alert
// fan-out on avoid. It always produces a verdict; lookup misses and
// downstream failures degrade to maybe instead of erroring out.
func (s *ScanService) Evaluate(user *models.User, code string) *ScanResult {
	active := user.IntoleranceList()

	var rec models.ProductRecord
	var v utils.Verdict
	escalate := false

	p, err := s.off.Lookup(code)
	switch {
	case err == nil:
		rec = *p
		v = utils.EvaluateProduct(rec, active)
		escalate = utils.NeedsEscalation(rec, v)
	case errors.Is(err, ErrProductNotFound):
		rec = models.ProductRecord{Code: code}
		v = utils.Verdict{Status: utils.StatusMaybe, Notes: []string{"Product not found in the database."}}
		escalate = true
	default:
		rec = models.ProductRecord{Code: code}
		v = utils.Verdict{Status: utils.StatusMaybe, Notes: []string{"Product lookup failed."}}
		escalate = true
	}

	source := "local"
	if escalate {
		adv := s.advisory.Evaluate(AdvisoryRequest{
			Code:         rec.Code,
			Name:         rec.Name,
			Brand:        rec.Brand,
			Ingredients:  rec.IngredientText,
			Allergens:    rec.AllergenTags,
			Traces:       rec.Traces,
			Lang:         rec.Lang,
			Intolerances: active,
		})
		// The advisory status overrides; its notes append to the local ones.
		v.Status = adv.Status
		v.Notes = append(v.Notes, adv.Notes...)
		source = "advisory"
	}

	name := rec.Name
	if name == "" {
		name = code
	}
	if err := s.history.Record(user.ID, code, name, rec.Brand, string(v.Status)); err != nil {
		log.Printf("history record failed for user %d code %s: %v", user.ID, code, err)
	}

	if v.Status == utils.StatusAvoid {
		EmitScanAlert(user.ID, code, name, fmt.Sprintf("%s is flagged avoid for your intolerances.", name))
	}

	return &ScanResult{Product: rec, Verdict: v, Source: source}
}

// EvaluateRecord classifies an already-assembled product record (e.g. the
// ingredient text read off a photographed label). No history entry is
// written since there is no barcode to key it on.
func (s *ScanService) EvaluateRecord(user *models.User, rec models.ProductRecord) *ScanResult {
	active := user.IntoleranceList()

	v := utils.EvaluateProduct(rec, active)
	source := "local"
	if utils.NeedsEscalation(rec, v) {
		adv := s.advisory.Evaluate(AdvisoryRequest{
			Code:         rec.Code,
			Name:         rec.Name,
			Brand:        rec.Brand,
			Ingredients:  rec.IngredientText,
			Allergens:    rec.AllergenTags,
			Traces:       rec.Traces,
			Lang:         rec.Lang,
			Intolerances: active,
		})
		v.Status = adv.Status
		v.Notes = append(v.Notes, adv.Notes...)
		source = "advisory"
	}

	return &ScanResult{Product: rec, Verdict: v, Source: source}
}
