package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Matt9117/Intolerancies/utils"
)

// AdvisoryRequest carries the product + profile context sent for a second
// opinion when the local verdict is inconclusive.
type AdvisoryRequest struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Ingredients  string   `json:"ingredients"`
	Allergens    []string `json:"allergens"`
	Traces       string   `json:"traces"`
	Lang         string   `json:"lang"`
	Intolerances []string `json:"intolerances"`
}

// AdvisoryResult is always well-formed: Status is one of safe/avoid/maybe
// and Notes is non-empty. Failures collapse into a conservative maybe.
type AdvisoryResult struct {
	Status utils.VerdictStatus `json:"status"`
	Notes  []string            `json:"notes"`
}

type AdvisoryService struct {
	client  *http.Client
	token   string
	model   string
	baseURL string
}

func NewAdvisoryService() *AdvisoryService {
	model := os.Getenv("HF_MODEL")
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.2"
	}
	baseURL := os.Getenv("HF_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	return &AdvisoryService{
		client:  &http.Client{Timeout: 15 * time.Second}, // bounded so the UI never hangs
		token:   os.Getenv("HUGGINGFACE_TOKEN"),
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Evaluate asks the hosted model to classify the product. It never returns
// an error: every failure mode degrades into {maybe, note} so the caller's
// fallback path is uniform.
func (a *AdvisoryService) Evaluate(req AdvisoryRequest) AdvisoryResult {
	if a.token == "" {
		return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"AI not configured"}}
	}

	prompt := a.buildPrompt(req)

	body := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens": 256,
			"temperature":    0.1,
		},
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequest(
		"POST",
		fmt.Sprintf("%s/%s", a.baseURL, a.model),
		bytes.NewReader(b),
	)
	if err != nil {
		return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"AI request failed"}}
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.token)
	httpReq.Header.Set("Content-Type", "application/json")
	// Ensure HF loads cold models instead of returning a "loading" error
	httpReq.Header.Set("x-wait-for-model", "true")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"AI request failed"}}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"AI request failed"}}
	}

	if resp.StatusCode != http.StatusOK {
		return AdvisoryResult{
			Status: utils.StatusMaybe,
			Notes:  []string{fmt.Sprintf("AI service error (%d)", resp.StatusCode)},
		}
	}

	return parseAdvisoryReply(respBytes)
}

func (a *AdvisoryService) buildPrompt(req AdvisoryRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a food-intolerance assistant. Decide whether this packaged product is safe for the user.\n\n")
	fmt.Fprintf(&sb, "Product code: %s\n", req.Code)
	fmt.Fprintf(&sb, "Name: %s\n", req.Name)
	if req.Brand != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", req.Brand)
	}
	fmt.Fprintf(&sb, "Ingredients (%s): %s\n", req.Lang, req.Ingredients)
	if len(req.Allergens) > 0 {
		fmt.Fprintf(&sb, "Allergen tags: %s\n", strings.Join(req.Allergens, ", "))
	}
	if req.Traces != "" {
		fmt.Fprintf(&sb, "Traces: %s\n", req.Traces)
	}
	fmt.Fprintf(&sb, "User intolerances: %s\n\n", strings.Join(req.Intolerances, ", "))
	sb.WriteString(`Answer with ONLY a JSON object, no markdown, matching exactly:
{"status": "safe"|"avoid"|"maybe", "notes": ["short reason", ...]}
Use "maybe" when the data is insufficient to decide.`)
	return sb.String()
}

// parseAdvisoryReply digs the structured verdict out of whatever the
// inference API returned: the usual [{"generated_text": ...}] array, a bare
// object, or JSON embedded in surrounding prose.
func parseAdvisoryReply(raw []byte) AdvisoryResult {
	text := ""

	var hfOut []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &hfOut); err == nil && len(hfOut) > 0 {
		text = hfOut[0].GeneratedText
	} else {
		var single struct {
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
			text = single.GeneratedText
		} else {
			text = string(raw)
		}
	}

	reply := struct {
		Status string   `json:"status"`
		Notes  []string `json:"notes"`
	}{}

	if err := json.Unmarshal([]byte(text), &reply); err != nil || reply.Status == "" {
		// Pattern search for an embedded JSON block before giving up.
		extracted, ok := extractJSONObject(text)
		if !ok || json.Unmarshal([]byte(extracted), &reply) != nil {
			return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"insufficient data"}}
		}
	}

	status := utils.VerdictStatus(strings.ToLower(strings.TrimSpace(reply.Status)))
	if status != utils.StatusSafe && status != utils.StatusAvoid && status != utils.StatusMaybe {
		return AdvisoryResult{Status: utils.StatusMaybe, Notes: []string{"insufficient data"}}
	}

	notes := make([]string, 0, len(reply.Notes))
	for _, n := range reply.Notes {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	if len(notes) == 0 {
		notes = []string{"AI assessment returned no detail"}
	}
	return AdvisoryResult{Status: status, Notes: notes}
}

// extractJSONObject finds the first complete JSON object in a string.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
