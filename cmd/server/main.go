package main

import (
	"log"

	_ "github.com/EnrikeM/Miro/docs"
	"github.com/EnrikeM/Miro/internal/config"
	"github.com/EnrikeM/Miro/internal/server"
)

// @title           Miro Boards API
// @version         1.0
// @description     API for collaborative sticker boards with role-based access.

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
		log.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}
