package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Matt9117/Intolerancies/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdvisory(baseURL string) *AdvisoryService {
	return &AdvisoryService{
		client:  &http.Client{Timeout: 2 * time.Second},
		token:   "test-token",
		model:   "test-model",
		baseURL: baseURL,
	}
}

func sampleRequest() AdvisoryRequest {
	return AdvisoryRequest{
		Code:         "8586000123456",
		Name:         "Testovací keks",
		Ingredients:  "",
		Lang:         "sk",
		Intolerances: []string{"gluten"},
	}
}

func TestAdvisoryMissingTokenSkipsCall(t *testing.T) {
	svc := testAdvisory("http://example.invalid")
	svc.token = ""

	res := svc.Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusMaybe, res.Status)
	assert.Equal(t, []string{"AI not configured"}, res.Notes)
}

func TestAdvisoryNon2xxFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := testAdvisory(srv.URL).Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusMaybe, res.Status)
	require.NotEmpty(t, res.Notes)
	assert.Contains(t, res.Notes[0], "503")
}

func TestAdvisoryGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not json"))
	}))
	defer srv.Close()

	res := testAdvisory(srv.URL).Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusMaybe, res.Status)
	assert.Equal(t, []string{"insufficient data"}, res.Notes)
}

func TestAdvisoryParsesGeneratedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "{\"status\":\"safe\",\"notes\":[\"no gluten sources found\"]}"}]`))
	}))
	defer srv.Close()

	res := testAdvisory(srv.URL).Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusSafe, res.Status)
	assert.Equal(t, []string{"no gluten sources found"}, res.Notes)
}

func TestAdvisoryExtractsEmbeddedJSON(t *testing.T) {
	// models like to wrap the object in prose; the parser digs it out
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "Sure, here is my assessment: {\"status\":\"avoid\",\"notes\":[\"contains milk\"]} Hope that helps!"}]`))
	}))
	defer srv.Close()

	res := testAdvisory(srv.URL).Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusAvoid, res.Status)
	assert.Equal(t, []string{"contains milk"}, res.Notes)
}

func TestAdvisoryRejectsUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "{\"status\":\"dunno\",\"notes\":[\"???\"]}"}]`))
	}))
	defer srv.Close()

	res := testAdvisory(srv.URL).Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusMaybe, res.Status)
	assert.Equal(t, []string{"insufficient data"}, res.Notes)
}

func TestAdvisoryNetworkFailure(t *testing.T) {
	// nothing listens here
	res := testAdvisory("http://127.0.0.1:1").Evaluate(sampleRequest())

	assert.Equal(t, utils.StatusMaybe, res.Status)
	assert.Equal(t, []string{"AI request failed"}, res.Notes)
}
