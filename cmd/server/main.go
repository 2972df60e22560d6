package main

import (
	"log"

	_ "linkboard/docs"
	"linkboard/internal/config"
	"linkboard/internal/server"
)

// @title           Linkboard API
// @version         1.0
// @description     API for multi-tenant link boards, widgets, and click/view insights.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
