package http

import (
	"time"

	"github.com/cerroazul/gestao-obras/internal/projects/service"
	"github.com/cerroazul/gestao-obras/internal/report"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc     *service.ProjectService
	printer report.Printer
	now     func() time.Time
}

// New builds the handler. printer may be nil, in which case PDF export
// answers as if the print surface were blocked.
func New(svc *service.ProjectService, printer report.Printer) *Handler {
	return &Handler{
		svc:     svc,
		printer: printer,
		now:     time.Now,
	}
}
