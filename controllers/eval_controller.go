package controllers

import (
	"net/http"
	"os"
	"strings"

	"github.com/Matt9117/Intolerancies/services"

	"github.com/gin-gonic/gin"
)

// defaultAllowedOrigins is the known set of app origins; extend via
// ALLOWED_ORIGINS (comma-separated) without redeploying.
var defaultAllowedOrigins = []string{
	"https://intolerancies.vercel.app",
	"http://localhost:5173",
	"http://localhost:3000",
}

func allowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return defaultAllowedOrigins
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func originAllowed(origin string) bool {
	for _, o := range allowedOrigins() {
		if strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// EvalAdvisory is the one public advisory surface the browser app calls
// cross-origin. It answers OPTIONS pre-flights for the origin allow-list,
// rejects other methods with 405, and on POST always responds 200: a
// downstream model failure becomes status "maybe", never a 5xx, so the
// client's fallback path is uniform.
func EvalAdvisory(c *gin.Context) {
	if origin := c.GetHeader("Origin"); origin != "" && originAllowed(origin) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")
		c.Header("Vary", "Origin")
	}

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	case http.MethodPost:
		var req services.AdvisoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}

		res := services.NewAdvisoryService().Evaluate(req)
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": res.Status, "notes": res.Notes})
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	}
}
