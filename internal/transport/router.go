package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/config"
	"github.com/kamau/expensa/internal/form"
	"github.com/kamau/expensa/internal/observability"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/workflow"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Sessions *Sessions

	Auth     client.AuthAPI
	Expenses client.ExpenseAPI
	Reports  client.ReportAPI

	Organization *organization.Config
	Engine       *workflow.Engine
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, metrics, and login bypass the
// session middleware.
func NewRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	builder := form.NewBuilder(deps.Organization)
	binder := form.NewBinder(deps.Organization)

	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.MetricsMiddleware)
	}

	// Public routes.
	r.Get("/ui/health", observability.HandleHealth())
	r.Get("/ui/ready", observability.HandleReady(observability.ReadinessChecks{
		OrganizationLoaded: func() bool { return deps.Organization != nil },
	}))
	if deps.Config.Observability.Metrics.Enabled {
		r.Method(http.MethodGet, deps.Config.Observability.Metrics.Path, observability.Handler())
	}
	r.Post("/ui/auth/login", handleLogin(deps.Auth, deps.Sessions, logger))

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Authenticate)
		r.Use(RequestLogging(logger))

		r.Get("/ui/session", handleGetSession())

		r.Get("/ui/forms/expense", handleGetExpenseForm(builder, binder, deps.Expenses))

		r.Post("/ui/expenses", handleCreateExpense(builder, deps.Expenses, deps.Metrics))
		r.Put("/ui/expenses/{expenseId}", handleUpdateExpense(builder, binder, deps.Expenses, deps.Metrics))
		r.Get("/ui/expenses/{expenseId}", handleGetExpense(deps.Expenses, deps.Organization, deps.Engine))
		r.Get("/ui/expenses/{expenseId}/toolbar", handleExpenseToolbar(deps.Expenses, deps.Organization, deps.Engine))
		r.Post("/ui/expenses/{expenseId}/actions/{action}", handleExpenseAction(deps.Expenses, deps.Organization, deps.Engine, deps.Metrics))

		r.Get("/ui/reports/{reportId}", handleGetReport(deps.Reports, deps.Organization, deps.Engine))
		r.Get("/ui/reports/{reportId}/toolbar", handleReportToolbar(deps.Reports, deps.Organization, deps.Engine))
		r.Post("/ui/reports/{reportId}/actions/{action}", handleReportAction(deps.Reports, deps.Organization, deps.Engine, deps.Metrics))
	})

	return r
}
