package handlers

import (
	"csv-chat-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router groups the handlers mounted by NewRouter.
type Router struct {
	Dataset    *DatasetHandler
	Chat       *ChatHandler
	Page       *PageHandler
	Monitoring *MonitoringHandler
	StaticDir  string
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(rt Router, monitoring *services.MonitoringService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// ミドルウェアの登録
	r.Use(monitoring.LoggingMiddleware())

	corsConfig := cors.DefaultConfig()
	// credentials と "*" は併用できないため Origin を反射する
	corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders(SessionHeader)
	corsConfig.AddExposeHeaders(SessionHeader, OutcomeHeader)
	r.Use(cors.New(corsConfig))

	r.GET("/", rt.Page.Index)
	r.Static("/static", rt.StaticDir)
	r.GET("/health", HealthCheck)

	r.POST("/upload-csv/", rt.Dataset.UploadCSV)
	r.POST("/upload-xlsx/", rt.Dataset.UploadXLSX)
	r.POST("/chat/", rt.Chat.Chat)

	dataset := r.Group("/dataset")
	{
		dataset.GET("/", rt.Dataset.Describe)
		dataset.DELETE("/", rt.Dataset.Clear)
	}

	r.GET("/monitoring/logs", rt.Monitoring.GetLogs)

	return r
}
