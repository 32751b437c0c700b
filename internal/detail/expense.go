// Package detail implements the per-entity detail managers. A manager
// exclusively owns one record and one screen visit's worth of state:
// it fetches the record, exposes read-only presentation strings, and
// delegates toolbar rendering and action dispatch to the workflow engine.
package detail

import (
	"context"
	"strconv"
	"strings"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// DisplayField is one optional label/value pair shown on a detail screen.
type DisplayField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AuditEntry is one formatted audit-history row.
type AuditEntry struct {
	Description string `json:"description"`
	Details     string `json:"details"`
}

// auditDetails renders the "createdBy | date" detail line.
func auditDetails(h model.AuditHistory) string {
	if h.Date.IsZero() {
		return h.CreatedBy
	}
	return h.CreatedBy + " | " + model.AuditDate(h.Date)
}

// ExpenseDetails orchestrates one expense detail screen visit.
type ExpenseDetails struct {
	svc    client.ExpenseAPI
	org    *organization.Config
	engine *workflow.Engine

	expense model.Expense
}

// NewExpenseDetails creates a manager for one screen visit.
func NewExpenseDetails(svc client.ExpenseAPI, org *organization.Config, engine *workflow.Engine) *ExpenseDetails {
	return &ExpenseDetails{svc: svc, org: org, engine: engine}
}

// Fetch loads the expense and replaces the owned record wholesale. There
// is no partial merge; readers must assume the record may be replaced in
// full between any two calls.
func (m *ExpenseDetails) Fetch(ctx context.Context, expenseID string) (model.Expense, error) {
	expense, err := m.svc.Details(ctx, expenseID)
	if err != nil {
		return model.Expense{}, err
	}
	m.expense = expense
	return expense, nil
}

// Expense returns the currently owned record.
func (m *ExpenseDetails) Expense() model.Expense { return m.expense }

// IsEditable reports whether the expense can still be edited.
func (m *ExpenseDetails) IsEditable() bool {
	switch m.expense.Status {
	case model.ExpenseStatusUnreported, model.ExpenseStatusUnsubmitted, model.ExpenseStatusRejected:
		return true
	}
	return false
}

// CategoryName resolves the expense's category display name.
func (m *ExpenseDetails) CategoryName() string {
	return m.org.CategoryName(m.expense.CategoryID)
}

// FormattedAmount renders the header amount, e.g. "SGD 120.50".
func (m *ExpenseDetails) FormattedAmount() string {
	return model.FormatAmount(m.org.CurrencyCode(m.expense.CurrencyID), m.expense.Amount)
}

// StatusLabel returns the uppercased status for the header.
func (m *ExpenseDetails) StatusLabel() string {
	return strings.ToUpper(string(m.expense.Status))
}

// DateLabel returns the formatted expense date.
func (m *ExpenseDetails) DateLabel() string {
	return model.DisplayDate(m.expense.Date)
}

// DisplayFields returns the optional fields to show, in a fixed order:
// exchange rate when positive, then each text attribute when non-empty.
// Description and location are independently addressable entries.
func (m *ExpenseDetails) DisplayFields() []DisplayField {
	var fields []DisplayField
	if m.expense.ExchangeRate > 0 {
		fields = append(fields, DisplayField{
			Label: "Exchange Rate",
			Value: strconv.FormatFloat(m.expense.ExchangeRate, 'f', -1, 64),
		})
	}
	for _, f := range []DisplayField{
		{Label: "Description", Value: m.expense.Description},
		{Label: "Location", Value: m.expense.Location},
		{Label: "Reference Number", Value: m.expense.ReferenceNumber},
		{Label: "Notes", Value: m.expense.Notes},
		{Label: "Merchant Name", Value: m.expense.MerchantName},
		{Label: "Payment Mode", Value: m.expense.PaymentMode},
	} {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// AuditEntries returns the formatted audit history, oldest first.
func (m *ExpenseDetails) AuditEntries() []AuditEntry {
	entries := make([]AuditEntry, 0, len(m.expense.AuditHistory))
	for _, h := range m.expense.AuditHistory {
		entries = append(entries, AuditEntry{
			Description: h.Description,
			Details:     auditDetails(h),
		})
	}
	return entries
}

// Strategy returns the toolbar strategy for the current status.
func (m *ExpenseDetails) Strategy() (workflow.Strategy, error) {
	return workflow.SelectExpenseStrategy(m.expense.Status)
}

// PerformAction dispatches one toolbar action through the workflow engine.
// A refresh outcome re-fetches the record for its authoritative status
// before returning.
func (m *ExpenseDetails) PerformAction(ctx context.Context, action workflow.Action) (workflow.Outcome, error) {
	strategy, err := m.Strategy()
	if err != nil {
		return workflow.Outcome{}, model.NewBadRequestError(err.Error())
	}

	outcome, err := m.engine.Perform(ctx, strategy, action, m.expense, m.transition)
	if err != nil {
		return workflow.Outcome{}, err
	}

	if outcome.Kind == workflow.OutcomeRefresh {
		if _, err := m.Fetch(ctx, m.expense.ID); err != nil {
			return workflow.Outcome{}, err
		}
	}
	return outcome, nil
}

func (m *ExpenseDetails) transition(ctx context.Context, recordID string, action workflow.Action) error {
	return m.svc.Process(ctx, recordID, string(action))
}
