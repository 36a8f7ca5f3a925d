package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/api/eval", EvalAdvisory)
	return r
}

func TestEvalPreflightEchoesAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/eval", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestEvalPreflightIgnoresUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/eval", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEvalOriginListFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://staging.example, https://app.example")

	req := httptest.NewRequest(http.MethodOptions, "/api/eval", nil)
	req.Header.Set("Origin", "https://staging.example")
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	assert.Equal(t, "https://staging.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEvalRejectsOtherMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/eval", nil)
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestEvalBadBodyIsBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvalAnswersMaybeWhenModelUnavailable(t *testing.T) {
	t.Setenv("HUGGINGFACE_TOKEN", "")

	body := `{"code":"8586000123456","name":"Keksy","ingredients":"múka, cukor","intolerances":["gluten"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	evalRouter().ServeHTTP(w, req)

	// downstream failure is never a 5xx on this surface
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		OK     bool     `json:"ok"`
		Status string   `json:"status"`
		Notes  []string `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.Equal(t, "maybe", res.Status)
	assert.Equal(t, []string{"AI not configured"}, res.Notes)
}
