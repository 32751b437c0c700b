package model

import "time"

// ReportStatus mirrors ExpenseStatus with an archival variant for reports
// that have completed the reimbursement cycle.
type ReportStatus string

const (
	ReportStatusUnsubmitted ReportStatus = "unsubmitted"
	ReportStatusRejected    ReportStatus = "rejected"
	ReportStatusSubmitted   ReportStatus = "submitted"
	ReportStatusApproved    ReportStatus = "approved"
	ReportStatusReimbursed  ReportStatus = "reimbursed"
	ReportStatusArchived    ReportStatus = "archived"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusUnsubmitted, ReportStatusRejected, ReportStatusSubmitted,
		ReportStatusApproved, ReportStatusReimbursed, ReportStatusArchived:
		return true
	}
	return false
}

// Report groups expenses for submission through the approval workflow.
type Report struct {
	ID           string         `json:"id"`
	Status       ReportStatus   `json:"status"`
	Title        string         `json:"title"`
	FromDate     time.Time      `json:"fromDate"`
	ToDate       time.Time      `json:"toDate"`
	CurrencyID   string         `json:"currencyId"`
	TotalAmount  float64        `json:"totalAmount"`
	Expenses     []Expense      `json:"expenses,omitempty"`
	Approvers    []Approver     `json:"approvers,omitempty"`
	AuditHistory []AuditHistory `json:"auditHistory,omitempty"`
}

// RecordID implements the workflow record contract.
func (r Report) RecordID() string { return r.ID }

// Approver identifies one member in a report's approval chain.
type Approver struct {
	MemberID string `json:"memberId"`
	FullName string `json:"fullName"`
}
