package client

import (
	"context"

	"github.com/kamau/expensa/model"
)

// ReportAPI is the narrow interface the report detail manager consumes.
type ReportAPI interface {
	Details(ctx context.Context, reportID string) (model.Report, error)
	Process(ctx context.Context, reportID, action string) error
}

// ReportService implements ReportAPI against the backend.
type ReportService struct {
	caller *Caller
}

// NewReportService creates a ReportService.
func NewReportService(caller *Caller) *ReportService {
	return &ReportService{caller: caller}
}

// Details fetches one report by id.
func (s *ReportService) Details(ctx context.Context, reportID string) (model.Report, error) {
	var report model.Report
	err := s.caller.Post(ctx, "/report/details", map[string]string{"reportId": reportID}, &report)
	return report, err
}

// Process applies a workflow action (reject, recall, archive) to a report.
func (s *ReportService) Process(ctx context.Context, reportID, action string) error {
	return s.caller.Post(ctx, "/report/process", map[string]string{
		"reportId": reportID,
		"action":   action,
	}, nil)
}
