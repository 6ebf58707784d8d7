package main

import (
	"fmt"
	"net/http"
	"time"

	"issuetrack-restful/auth"
	"issuetrack-restful/config"
	"issuetrack-restful/controllers"
	"issuetrack-restful/database"
	"issuetrack-restful/repositories"
	"issuetrack-restful/services"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"go.uber.org/zap"
)

// RequestLogFilter logs every request with latency and status once the
// chain has finished.
func RequestLogFilter(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		startTime := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info("Request",
			zap.String("client_ip", req.Request.RemoteAddr),
			zap.String("method", req.Request.Method),
			zap.String("path", req.Request.URL.Path),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("user_agent", req.Request.UserAgent()),
		)
	}
}

func main() {
	config.InitConfig()

	var logger *zap.Logger
	switch config.AppConfig.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	auth.SetSigningKey([]byte(config.AppConfig.JwtSecret))

	db := database.InitDB()

	userRepo := repositories.NewUserRepository(db)
	issueRepo := repositories.NewIssueRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	userService := services.NewUserService(userRepo)
	issueService := services.NewIssueService(issueRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, issueRepo, notificationRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)

	verifier := auth.NewVerifier(userRepo)

	container := restful.NewContainer()
	container.Filter(RequestLogFilter(logger))

	authWS := new(restful.WebService)
	auth.NewAuthResource(verifier, userRepo).RegisterRoutes(authWS)
	container.Add(authWS)

	userWS := new(restful.WebService)
	controllers.NewUserController(userService).RegisterRoutes(userWS)
	container.Add(userWS)

	issueWS := new(restful.WebService)
	controllers.NewIssueController(issueService).RegisterRoutes(issueWS)
	container.Add(issueWS)

	commentWS := new(restful.WebService)
	controllers.NewCommentController(commentService).RegisterRoutes(commentWS)
	container.Add(commentWS)

	notificationWS := new(restful.WebService)
	controllers.NewNotificationController(notificationService).RegisterRoutes(notificationWS)
	container.Add(notificationWS)

	apiDocsConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
		PostBuildSwaggerObjectHandler: func(s *spec.Swagger) {
			s.Info = &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       config.AppConfig.ServiceName,
					Description: "Role-based issue tracking API",
					Version:     "1.0.0",
				},
			}
		},
	}
	container.Add(restfulspec.NewOpenAPIService(apiDocsConfig))

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, container); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
