package model

import "time"

// ExpenseStatus is the closed set of states an expense moves through. The
// workflow engine treats these as finite-state labels, not ordinals.
type ExpenseStatus string

const (
	ExpenseStatusUnreported  ExpenseStatus = "unreported"
	ExpenseStatusUnsubmitted ExpenseStatus = "unsubmitted"
	ExpenseStatusRejected    ExpenseStatus = "rejected"
	ExpenseStatusSubmitted   ExpenseStatus = "submitted"
	ExpenseStatusApproved    ExpenseStatus = "approved"
	ExpenseStatusReimbursed  ExpenseStatus = "reimbursed"
)

// Valid reports whether s is a known expense status.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusUnreported, ExpenseStatusUnsubmitted, ExpenseStatusRejected,
		ExpenseStatusSubmitted, ExpenseStatusApproved, ExpenseStatusReimbursed:
		return true
	}
	return false
}

// Expense is one expense record as decoded from the backend. A detail
// manager owns exactly one Expense for the lifetime of a screen visit and
// replaces it wholesale on every successful fetch.
type Expense struct {
	ID              string            `json:"id"`
	Status          ExpenseStatus     `json:"status"`
	CategoryID      string            `json:"categoryId"`
	Date            time.Time         `json:"date"`
	CurrencyID      string            `json:"currencyId"`
	Amount          float64           `json:"amount"`
	MerchantName    string            `json:"merchantName"`
	ReferenceNumber string            `json:"referenceNumber"`
	Location        string            `json:"location"`
	Description     string            `json:"description"`
	Notes           string            `json:"notes"`
	PaymentMode     string            `json:"paymentMode"`
	ReportID        string            `json:"reportId"`
	ReportTitle     string            `json:"reportTitle"`
	ExchangeRate    float64           `json:"exchangeRate"`
	CustomFields    map[string]string `json:"customFields,omitempty"`
	AuditHistory    []AuditHistory    `json:"auditHistory,omitempty"`
}

// RecordID implements the workflow record contract.
func (e Expense) RecordID() string { return e.ID }

// AuditHistory is one entry in a record's audit trail, ordered oldest first.
type AuditHistory struct {
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	Date        time.Time `json:"date"`
}
