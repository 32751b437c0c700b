package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/detail"
	"github.com/kamau/expensa/internal/observability"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// reportView is the wire shape of the report detail screen.
type reportView struct {
	Report         model.Report        `json:"report"`
	FormattedTotal string              `json:"formattedTotal"`
	StatusLabel    string              `json:"statusLabel"`
	DateRangeLabel string              `json:"dateRangeLabel"`
	IsEditable     bool                `json:"isEditable"`
	ApproverNames  []string            `json:"approverNames"`
	AuditEntries   []detail.AuditEntry `json:"auditEntries"`
	Toolbar        toolbarView         `json:"toolbar"`
}

func reportViewOf(m *detail.ReportDetails) (reportView, error) {
	strategy, err := m.Strategy()
	if err != nil {
		return reportView{}, model.NewBadRequestError(err.Error())
	}
	return reportView{
		Report:         m.Report(),
		FormattedTotal: m.FormattedTotal(),
		StatusLabel:    m.StatusLabel(),
		DateRangeLabel: m.DateRangeLabel(),
		IsEditable:     m.IsEditable(),
		ApproverNames:  m.ApproverNames(),
		AuditEntries:   m.AuditEntries(),
		Toolbar:        toolbarOf(strategy),
	}, nil
}

func handleGetReport(reports client.ReportAPI, org *organization.Config, engine *workflow.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := detail.NewReportDetails(reports, org, engine)
		if _, err := m.Fetch(r.Context(), chi.URLParam(r, "reportId")); err != nil {
			WriteError(w, err)
			return
		}

		view, err := reportViewOf(m)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
	}
}

func handleReportToolbar(reports client.ReportAPI, org *organization.Config, engine *workflow.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := detail.NewReportDetails(reports, org, engine)
		if _, err := m.Fetch(r.Context(), chi.URLParam(r, "reportId")); err != nil {
			WriteError(w, err)
			return
		}

		strategy, err := m.Strategy()
		if err != nil {
			WriteError(w, model.NewBadRequestError(err.Error()))
			return
		}
		WriteJSON(w, http.StatusOK, toolbarOf(strategy))
	}
}

// reportActionResponse mirrors actionResponse for reports.
type reportActionResponse struct {
	Outcome workflow.Outcome `json:"outcome"`
	Report  *reportView      `json:"report,omitempty"`
}

func handleReportAction(reports client.ReportAPI, org *organization.Config, engine *workflow.Engine, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := workflow.Action(chi.URLParam(r, "action"))

		var req actionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				WriteError(w, model.NewBadRequestError("Malformed request body"))
				return
			}
		}
		ctx := WithConfirmation(r.Context(), req.Confirmed)

		m := detail.NewReportDetails(reports, org, engine)
		if _, err := m.Fetch(ctx, chi.URLParam(r, "reportId")); err != nil {
			WriteError(w, err)
			return
		}

		outcome, err := m.PerformAction(ctx, action)
		if metrics != nil {
			metrics.ActionsTotal.WithLabelValues("report", string(action), actionResult(outcome, err)).Inc()
		}
		if err != nil {
			WriteError(w, err)
			return
		}

		resp := reportActionResponse{Outcome: outcome}
		if outcome.Kind == workflow.OutcomeRefresh {
			view, verr := reportViewOf(m)
			if verr != nil {
				WriteError(w, verr)
				return
			}
			resp.Report = &view
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
