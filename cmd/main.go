package main

import (
	"log"

	"github.com/Matt9117/Intolerancies/config"
	"github.com/Matt9117/Intolerancies/routes"
	"github.com/Matt9117/Intolerancies/services"
	"github.com/Matt9117/Intolerancies/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	rt := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		// push is optional in local dev; alerts still reach websockets
		log.Printf("push service unavailable: %v", err)
		push = nil
	}
	services.InitAlertDeps(config.DB, rt, push)

	r := routes.SetupRouter(rt, push)
	r.Run(":8080")
}
