package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/AnirbanGoswamiban/SeerAI-backend/internal/app"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/bootstrap"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/cache"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/platform/rabbitmq"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/repository"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/handler"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = int64(app.Config.Storage.MaxUploadMB) << 20

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	sessionRepo := repository.NewSessionRepository(app.MySQL)
	spaceRepo := repository.NewSpaceRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)
	viewCache := cache.NewViewCache(app.Redis, time.Duration(app.Config.Redis.ViewTTLSeconds)*time.Second)
	extractPublisher := rabbitmq.NewExtractPublisher(app.MQConn, app.Config.RabbitMQ.ExtractQueue)

	sessionService := appsvc.NewSessionService(sessionRepo)
	spaceService := appsvc.NewSpaceService(spaceRepo, sessionRepo, app.Files, extractPublisher, viewCache, docRepo)

	cookie := handler.CookieSettings{
		Name:   app.Config.Auth.CookieName,
		Secret: app.Config.Auth.CookieSecret,
		TTL:    time.Duration(app.Config.Auth.CookieTTLMinute) * time.Minute,
	}
	limits := handler.UploadLimits{
		MaxBytes:    int64(app.Config.Storage.MaxUploadMB) << 20,
		AllowedExts: app.Config.Storage.AllowedExts,
		MaxFiles:    app.Config.Storage.MaxFilesPerRequest,
	}
	sessionHandler := handler.NewSessionHandler(sessionService, cookie)
	spaceHandler := handler.NewSpaceHandler(spaceService, limits)

	requireSession := middleware.RequireSession(cookie.Name, cookie.Secret)

	v1 := router.Group("/api/v1")
	sessionGroup := v1.Group("/session")
	sessionGroup.POST("/start-new", sessionHandler.Start)
	sessionGroup.POST("/continue", sessionHandler.Continue)
	sessionGroup.GET("/profile", requireSession, sessionHandler.Profile)
	sessionGroup.POST("/update-profile", requireSession, sessionHandler.UpdateProfile)
	sessionGroup.GET("/end", sessionHandler.End)

	spaceGroup := v1.Group("/spaces")
	spaceGroup.Use(requireSession)
	spaceGroup.GET("", spaceHandler.List)
	spaceGroup.POST("/create", spaceHandler.Create)
	spaceGroup.GET("/:id", spaceHandler.Details)
	spaceGroup.POST("/:id/files", spaceHandler.Upload)
	spaceGroup.GET("/:id/documents", spaceHandler.Documents)
	spaceGroup.GET("/:id/resume", spaceHandler.DownloadResume)

	return router
}
