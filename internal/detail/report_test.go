package detail

import (
	"context"
	"testing"
	"time"

	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// stubReportAPI serves a mutable report and records Process calls.
type stubReportAPI struct {
	report    model.Report
	detailErr error
	processed []string
}

func (s *stubReportAPI) Details(context.Context, string) (model.Report, error) {
	if s.detailErr != nil {
		return model.Report{}, s.detailErr
	}
	return s.report, nil
}

func (s *stubReportAPI) Process(_ context.Context, _ string, action string) error {
	s.processed = append(s.processed, action)
	return nil
}

func testReport() model.Report {
	return model.Report{
		ID:          "rep-1",
		Status:      model.ReportStatusSubmitted,
		Title:       "March Expenses",
		FromDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ToDate:      time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		CurrencyID:  "cur-sgd",
		TotalAmount: 480,
		Approvers: []model.Approver{
			{MemberID: "mem-1", FullName: "Dev Patel"},
			{MemberID: "mem-2", FullName: "Lena Koh"},
		},
	}
}

func fetchedReportManager(t *testing.T, svc *stubReportAPI) *ReportDetails {
	t.Helper()
	m := NewReportDetails(svc, testOrg(), testEngine())
	if _, err := m.Fetch(context.Background(), "rep-1"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	return m
}

func TestReportDetails_presentation(t *testing.T) {
	m := fetchedReportManager(t, &stubReportAPI{report: testReport()})

	if got := m.FormattedTotal(); got != "SGD 480.00" {
		t.Errorf("FormattedTotal() = %q, want SGD 480.00", got)
	}
	if got := m.StatusLabel(); got != "SUBMITTED" {
		t.Errorf("StatusLabel() = %q, want SUBMITTED", got)
	}
	if got := m.DateRangeLabel(); got != "01 Mar 2026 - 31 Mar 2026" {
		t.Errorf("DateRangeLabel() = %q", got)
	}
}

func TestReportDetails_approver_names_in_order(t *testing.T) {
	m := fetchedReportManager(t, &stubReportAPI{report: testReport()})

	names := m.ApproverNames()
	if len(names) != 2 || names[0] != "Dev Patel" || names[1] != "Lena Koh" {
		t.Errorf("ApproverNames() = %v", names)
	}
}

func TestReportDetails_editable_statuses(t *testing.T) {
	tests := []struct {
		status   model.ReportStatus
		editable bool
	}{
		{model.ReportStatusUnsubmitted, true},
		{model.ReportStatusRejected, true},
		{model.ReportStatusSubmitted, false},
		{model.ReportStatusApproved, false},
		{model.ReportStatusReimbursed, false},
		{model.ReportStatusArchived, false},
	}
	for _, tt := range tests {
		report := testReport()
		report.Status = tt.status
		m := fetchedReportManager(t, &stubReportAPI{report: report})
		if got := m.IsEditable(); got != tt.editable {
			t.Errorf("%q: IsEditable() = %v, want %v", tt.status, got, tt.editable)
		}
	}
}

func TestReportDetails_perform_archive_refetches(t *testing.T) {
	report := testReport()
	report.Status = model.ReportStatusReimbursed
	svc := &stubReportAPI{report: report}
	m := fetchedReportManager(t, svc)

	svc.report.Status = model.ReportStatusArchived

	outcome, err := m.PerformAction(context.Background(), workflow.ActionArchive)
	if err != nil {
		t.Fatalf("PerformAction() error = %v", err)
	}
	if outcome.Kind != workflow.OutcomeRefresh {
		t.Fatalf("outcome kind = %q, want refresh", outcome.Kind)
	}
	if len(svc.processed) != 1 || svc.processed[0] != "archive" {
		t.Errorf("processed actions = %v, want [archive]", svc.processed)
	}
	if m.Report().Status != model.ReportStatusArchived {
		t.Errorf("Status = %q, want the re-fetched status", m.Report().Status)
	}
}

func TestReportDetails_perform_disallowed(t *testing.T) {
	svc := &stubReportAPI{report: testReport()}
	m := fetchedReportManager(t, svc)

	_, err := m.PerformAction(context.Background(), workflow.ActionArchive)
	if model.CodeOf(err) != model.ErrInvalidTransition {
		t.Fatalf("error code = %q, want INVALID_TRANSITION", model.CodeOf(err))
	}
	if len(svc.processed) != 0 {
		t.Error("disallowed action reached the backend")
	}
}

func TestReportDetails_empty_date_range(t *testing.T) {
	report := testReport()
	report.FromDate = time.Time{}
	report.ToDate = time.Time{}
	m := fetchedReportManager(t, &stubReportAPI{report: report})

	if got := m.DateRangeLabel(); got != "" {
		t.Errorf("DateRangeLabel() = %q, want empty for zero dates", got)
	}
}
