package detail

import (
	"context"
	"strings"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// ReportDetails orchestrates one report detail screen visit.
type ReportDetails struct {
	svc    client.ReportAPI
	org    *organization.Config
	engine *workflow.Engine

	report model.Report
}

// NewReportDetails creates a manager for one screen visit.
func NewReportDetails(svc client.ReportAPI, org *organization.Config, engine *workflow.Engine) *ReportDetails {
	return &ReportDetails{svc: svc, org: org, engine: engine}
}

// Fetch loads the report and replaces the owned record wholesale.
func (m *ReportDetails) Fetch(ctx context.Context, reportID string) (model.Report, error) {
	report, err := m.svc.Details(ctx, reportID)
	if err != nil {
		return model.Report{}, err
	}
	m.report = report
	return report, nil
}

// Report returns the currently owned record.
func (m *ReportDetails) Report() model.Report { return m.report }

// IsEditable reports whether the report can still be edited.
func (m *ReportDetails) IsEditable() bool {
	switch m.report.Status {
	case model.ReportStatusUnsubmitted, model.ReportStatusRejected:
		return true
	}
	return false
}

// FormattedTotal renders the header total, e.g. "SGD 480.00".
func (m *ReportDetails) FormattedTotal() string {
	return model.FormatAmount(m.org.CurrencyCode(m.report.CurrencyID), m.report.TotalAmount)
}

// StatusLabel returns the uppercased status for the header.
func (m *ReportDetails) StatusLabel() string {
	return strings.ToUpper(string(m.report.Status))
}

// DateRangeLabel renders the report's covered period.
func (m *ReportDetails) DateRangeLabel() string {
	from := model.DisplayDate(m.report.FromDate)
	to := model.DisplayDate(m.report.ToDate)
	if from == "" && to == "" {
		return ""
	}
	return from + " - " + to
}

// ApproverNames returns the approval chain's display names in order.
func (m *ReportDetails) ApproverNames() []string {
	names := make([]string, 0, len(m.report.Approvers))
	for _, a := range m.report.Approvers {
		names = append(names, a.FullName)
	}
	return names
}

// AuditEntries returns the formatted audit history, oldest first.
func (m *ReportDetails) AuditEntries() []AuditEntry {
	entries := make([]AuditEntry, 0, len(m.report.AuditHistory))
	for _, h := range m.report.AuditHistory {
		entries = append(entries, AuditEntry{
			Description: h.Description,
			Details:     auditDetails(h),
		})
	}
	return entries
}

// Strategy returns the toolbar strategy for the current status.
func (m *ReportDetails) Strategy() (workflow.Strategy, error) {
	return workflow.SelectReportStrategy(m.report.Status)
}

// PerformAction dispatches one toolbar action through the workflow engine,
// re-fetching on a refresh outcome.
func (m *ReportDetails) PerformAction(ctx context.Context, action workflow.Action) (workflow.Outcome, error) {
	strategy, err := m.Strategy()
	if err != nil {
		return workflow.Outcome{}, model.NewBadRequestError(err.Error())
	}

	outcome, err := m.engine.Perform(ctx, strategy, action, m.report, m.transition)
	if err != nil {
		return workflow.Outcome{}, err
	}

	if outcome.Kind == workflow.OutcomeRefresh {
		if _, err := m.Fetch(ctx, m.report.ID); err != nil {
			return workflow.Outcome{}, err
		}
	}
	return outcome, nil
}

func (m *ReportDetails) transition(ctx context.Context, recordID string, action workflow.Action) error {
	return m.svc.Process(ctx, recordID, string(action))
}
