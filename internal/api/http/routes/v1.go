package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cerroazul/gestao-obras/internal/api/http/middleware"
	"github.com/cerroazul/gestao-obras/internal/attachments"
	"github.com/cerroazul/gestao-obras/internal/auth"
	authhttp "github.com/cerroazul/gestao-obras/internal/auth/http"
	authservice "github.com/cerroazul/gestao-obras/internal/auth/service"
	projecthttp "github.com/cerroazul/gestao-obras/internal/projects/http"
	projectservice "github.com/cerroazul/gestao-obras/internal/projects/service"
	"github.com/cerroazul/gestao-obras/internal/report"
)

type V1Deps struct {
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter

	Auth     *authservice.AuthService
	Projects *projectservice.ProjectService
	Printer  report.Printer
	Uploader *attachments.Uploader
}

// RegisterV1 mounts the /api/v1 routes. Every route sees the caller's
// session; write routes refuse the anonymous one.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(dep.RateLimiter.Middleware())
	api.Use(auth.WithSession(dep.Auth, dep.Logger))

	authhttp.New(dep.Auth).Register(api.Group("/auth"))

	projectHandler := projecthttp.New(dep.Projects, dep.Printer)
	projectHandler.Register(api.Group("/projects"))
	projectHandler.RegisterSelection(api.Group("/selection"))

	if dep.Uploader != nil {
		attachments.NewHandler(dep.Uploader, dep.Logger).Register(api.Group("/attachments"))
	}
}
