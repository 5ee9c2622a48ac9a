package main

import (
	"log"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()
	if cfg.Environment == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := server.New(cfg, nil)
	if err != nil {
		log.Fatal("Failed to initialize server:", err)
	}

	log.Println("Starting CSV Chat-API server on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
