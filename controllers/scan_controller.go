package controllers

import (
	"net/http"
	"strings"

	"github.com/Matt9117/Intolerancies/config"
	"github.com/Matt9117/Intolerancies/models"
	"github.com/Matt9117/Intolerancies/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ScanController struct {
	Sessions *services.ScanSessionManager
}

func NewScanController(m *services.ScanSessionManager) *ScanController {
	return &ScanController{Sessions: m}
}

func newScanService() *services.ScanService {
	return services.NewScanService(
		services.NewOpenFoodFactsService(),
		services.NewAdvisoryService(),
		services.NewHistoryService(config.DB),
	)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	email := c.GetString("email")
	var u models.User
	if err := config.DB.First(&u, "email = ?", email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	return &u, true
}

// GET /scan/:code is the manual entry path; same pipeline the websocket uses.
func (sc *ScanController) ScanCode(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product code required"})
		return
	}

	res := newScanService().Evaluate(user, code)
	c.JSON(http.StatusOK, res)
}

type labelScanReq struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /scan/label is the fallback for products the databases don't know: OCR the
// photographed ingredient label and run the verdict engine over the text.
func (sc *ScanController) ScanLabelPhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req labelScanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	rek, err := services.NewRekognitionService()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	text, err := rek.ReadLabelText(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	rec := models.ProductRecord{
		Name:           "photographed label",
		IngredientText: text,
		Lang:           "sk",
	}
	res := newScanService().EvaluateRecord(user, rec)
	c.JSON(http.StatusOK, gin.H{"text": text, "verdict": res.Verdict, "source": res.Source})
}

var scanUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

type scanFrame struct {
	Payload string `json:"payload"`
}

// GET /scan/ws: the browser streams decoded barcode payloads up; the first
// accepted one runs the pipeline and the session closes itself. Starting a
// new socket for the same user supersedes (cancels) the old session.
func (sc *ScanController) ScanWS(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conn, err := scanUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	session := sc.Sessions.Start(user.ID)
	defer sc.Sessions.Release(session)

	_ = conn.WriteJSON(gin.H{"kind": "session.started", "session_id": session.ID})

	// If the session is superseded before anything is accepted, drop the
	// socket so the client releases its camera.
	go func() {
		<-session.Done()
		if _, accepted := session.Accepted(); !accepted {
			_ = conn.Close()
		}
	}()

	for {
		var frame scanFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if session.Stopped() {
			return
		}
		if !session.Submit(frame.Payload) {
			continue
		}

		res := newScanService().Evaluate(user, strings.TrimSpace(frame.Payload))
		_ = conn.WriteJSON(gin.H{
			"kind":       "scan.result",
			"session_id": session.ID,
			"result":     res,
		})
		return
	}
}
