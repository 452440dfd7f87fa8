package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httpapi "github.com/cerroazul/gestao-obras/internal/api/http"
	"github.com/cerroazul/gestao-obras/internal/api/http/middleware"
	"github.com/cerroazul/gestao-obras/internal/api/http/routes"
	"github.com/cerroazul/gestao-obras/internal/attachments"
	authrepo "github.com/cerroazul/gestao-obras/internal/auth/repository"
	authservice "github.com/cerroazul/gestao-obras/internal/auth/service"
	projectservice "github.com/cerroazul/gestao-obras/internal/projects/service"
	"github.com/cerroazul/gestao-obras/internal/report"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger

	DB       *pgxpool.Pool
	Sessions authrepo.SessionStore

	Auth     *authservice.AuthService
	Projects *projectservice.ProjectService
	Printer  report.Printer
	// Uploader is nil when no object store is configured.
	Uploader *attachments.Uploader
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var sessions httpapi.Pinger
	if dep.Sessions != nil {
		sessions = dep.Sessions
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, sessions)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Logger:      dep.Logger,
		RateLimiter: dep.RateLimiter,
		Auth:        dep.Auth,
		Projects:    dep.Projects,
		Printer:     dep.Printer,
		Uploader:    dep.Uploader,
	})

	return r
}
