package services

import (
	"fmt"
	"time"

	"github.com/Matt9117/Intolerancies/models"
	"gorm.io/gorm"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitScanAlert fans an avoid verdict out to the user's open websockets and
// registered devices. Safe to call anywhere; a nil dependency just skips
// that channel.
func EmitScanAlert(userID uint, code, productName, message string) {
	if _alert.db == nil {
		return // not initialized
	}
	a := &models.Alert{UserID: userID, Code: code, Type: "warning", Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastAlert(userID, map[string]any{
			"kind":    "scan.alert",
			"code":    code,
			"product": productName,
			"alert":   a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Check this product", message, map[string]string{
			"code": code, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}
