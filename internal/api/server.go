package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/vietanh2810/portfolio-site/docs"
	v1 "github.com/vietanh2810/portfolio-site/internal/api/handler/v1"
	"github.com/vietanh2810/portfolio-site/internal/api/middleware"
	"github.com/vietanh2810/portfolio-site/internal/config"
	"github.com/vietanh2810/portfolio-site/internal/ratelimit"
	"github.com/vietanh2810/portfolio-site/internal/repository"
	"github.com/vietanh2810/portfolio-site/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the router. limiter may be nil, in which case no rate limit
// is applied.
func NewServer(conf *config.AppConfig, store repository.MessageDAO, limiter ratelimit.Limiter) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	if err := engine.SetTrustedProxies(conf.API.TrustedProxies); err != nil {
		zap.L().Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares(limiter)

	contactHandler := s.initContactHandler(store)
	pageHandler := v1.NewPageHandler(conf.Static.Dir)
	s.MountHandlers(contactHandler, pageHandler)

	return s
}

func (s *Server) initContactHandler(store repository.MessageDAO) *v1.ContactHandler {
	repo := repository.NewMessageRepository(store)
	svc := service.NewContactService(repo)
	handler := v1.NewContactHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares(limiter ratelimit.Limiter) {
	s.Router.Use(gin.Logger())
	s.Router.Use(middleware.Recovery())
	s.Router.Use(requestid.New(requestid.WithGenerator(uuid.NewString)))
	s.Router.Use(middleware.SecureHeaders(s.Config.Security, s.Config.API.IsProduction()))
	if s.Config.RateLimit.Enabled && limiter != nil {
		s.Router.Use(middleware.RateLimit(limiter, s.Config.RateLimit.Message))
	}
	s.Router.Use(gzip.Gzip(gzip.DefaultCompression))
	s.Router.Use(middleware.ConfigCORS(s.Config.CORSOrigins()))
	s.Router.Use(middleware.BodyLimit(s.Config.API.MaxBodyBytes))
}

func (s *Server) MountHandlers(contactHandler *v1.ContactHandler, pageHandler *v1.PageHandler) {
	const basePath = "/api"

	api := s.Router.Group(basePath)
	{
		api.POST("/contact", contactHandler.HandleContact)
		if s.Config.API.ExposeMessages {
			api.GET("/messages", contactHandler.HandleListMessages)
		}
	}

	s.Router.GET("/health", v1.HandleHealthcheck)

	for route, file := range v1.Pages {
		s.Router.GET(route, pageHandler.HandlePage(file))
	}
	s.Router.NoRoute(pageHandler.HandleFallback)

	if s.Config.API.Swagger {
		docs.SwaggerInfo.Host = s.Config.API.BaseURL
		docs.SwaggerInfo.BasePath = basePath
		docs.SwaggerInfo.Title = "Portfolio site API"
		docs.SwaggerInfo.Description = "Contact form and health endpoints of the portfolio site."
		docs.SwaggerInfo.Version = "1.0"
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	}
}
