package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/model"
)

// MockBackend fakes the upstream expense service over real HTTP. It speaks
// the POST-only envelope protocol and keeps a small mutable record set so
// workflow transitions show up on the next fetch, the way the real backend
// behaves.
type MockBackend struct {
	server *httptest.Server

	mu        sync.Mutex
	expenses  map[string]model.Expense
	reports   map[string]model.Report
	member    client.LoginResult
	password  string
	nextID    int
	calls     map[string]int
	overrides map[string]mockResponse
}

type mockResponse struct {
	status int
	body   string
}

// NewMockBackend starts a mock backend seeded with one submitted expense
// and one submitted report.
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()

	m := &MockBackend{
		expenses: map[string]model.Expense{
			"exp-1": {
				ID:         "exp-1",
				Status:     model.ExpenseStatusSubmitted,
				CategoryID: "cat-1",
				Date:       time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
				CurrencyID: "cur-sgd",
				Amount:     55,
				Location:   "Singapore",
				AuditHistory: []model.AuditHistory{
					{Description: "Created", CreatedBy: "Amira Tan", Date: time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)},
				},
			},
		},
		reports: map[string]model.Report{
			"rep-1": {
				ID:          "rep-1",
				Status:      model.ReportStatusSubmitted,
				Title:       "Feb Expenses",
				FromDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				ToDate:      time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
				CurrencyID:  "cur-sgd",
				TotalAmount: 310,
				Approvers:   []model.Approver{{MemberID: "mem-9", FullName: "Dev Patel"}},
			},
		},
		member: client.LoginResult{
			MemberID:       "mem-1",
			FullName:       "Amira Tan",
			OrganizationID: "org-1",
			Role:           model.RoleApprover,
		},
		password:  "secret",
		calls:     map[string]int{},
		overrides: map[string]mockResponse{},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the backend base URL.
func (m *MockBackend) URL() string { return m.server.URL }

// Close shuts the backend down.
func (m *MockBackend) Close() { m.server.Close() }

// Calls returns how many requests hit the given path.
func (m *MockBackend) Calls(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[path]
}

// Expense returns the current stored state of an expense.
func (m *MockBackend) Expense(id string) model.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expenses[id]
}

// Report returns the current stored state of a report.
func (m *MockBackend) Report(id string) model.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reports[id]
}

// SetExpense stores an expense fixture.
func (m *MockBackend) SetExpense(exp model.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[exp.ID] = exp
}

// SetReport stores a report fixture.
func (m *MockBackend) SetReport(rep model.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[rep.ID] = rep
}

// FailWith makes the given path answer with an errors envelope.
func (m *MockBackend) FailWith(path, code, message string) {
	body, _ := json.Marshal(map[string]any{"errors": map[string]string{
		"errorCode":    code,
		"errorMessage": message,
	}})
	m.setOverride(path, mockResponse{status: http.StatusOK, body: string(body)})
}

// RespondStatus makes the given path answer with a bare HTTP status.
func (m *MockBackend) RespondStatus(path string, status int) {
	m.setOverride(path, mockResponse{status: status, body: "upstream error"})
}

// RespondRaw makes the given path answer 200 with a verbatim body.
func (m *MockBackend) RespondRaw(path, body string) {
	m.setOverride(path, mockResponse{status: http.StatusOK, body: body})
}

func (m *MockBackend) setOverride(path string, resp mockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[path] = resp
}

func (m *MockBackend) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[r.URL.Path]++

	if ov, ok := m.overrides[r.URL.Path]; ok {
		w.WriteHeader(ov.status)
		fmt.Fprint(w, ov.body)
		return
	}

	switch r.URL.Path {
	case "/authentication/login":
		if str(body, "password") != m.password {
			writeErrors(w, "AUTH-401", "Invalid credentials")
			return
		}
		writeData(w, m.member)

	case "/organization/details":
		writeData(w, m.organizationDetails())

	case "/expense/details":
		exp, ok := m.expenses[str(body, "expenseId")]
		if !ok {
			writeErrors(w, "EXP-404", "Expense not found")
			return
		}
		writeData(w, exp)

	case "/expense/create":
		m.nextID++
		exp := model.Expense{
			ID:     fmt.Sprintf("exp-%d", 100+m.nextID),
			Status: model.ExpenseStatusUnreported,
		}
		applyExpensePayload(&exp, body)
		m.expenses[exp.ID] = exp
		writeData(w, exp)

	case "/expense/update":
		id := str(body, "expenseId")
		exp, ok := m.expenses[id]
		if !ok {
			writeErrors(w, "EXP-404", "Expense not found")
			return
		}
		applyExpensePayload(&exp, body)
		m.expenses[id] = exp
		writeData(w, exp)

	case "/expense/process":
		id := str(body, "expenseId")
		exp, ok := m.expenses[id]
		if !ok {
			writeErrors(w, "EXP-404", "Expense not found")
			return
		}
		next, ok := nextExpenseStatus(str(body, "action"))
		if !ok {
			writeErrors(w, "EXP-422", "Unknown action")
			return
		}
		exp.Status = next
		exp.AuditHistory = append(exp.AuditHistory, model.AuditHistory{
			Description: "Status changed to " + string(next),
			CreatedBy:   m.member.FullName,
			Date:        time.Now().UTC(),
		})
		m.expenses[id] = exp
		writeData(w, map[string]bool{"processed": true})

	case "/report/details":
		rep, ok := m.reports[str(body, "reportId")]
		if !ok {
			writeErrors(w, "RPT-404", "Report not found")
			return
		}
		writeData(w, rep)

	case "/report/process":
		id := str(body, "reportId")
		rep, ok := m.reports[id]
		if !ok {
			writeErrors(w, "RPT-404", "Report not found")
			return
		}
		next, ok := nextReportStatus(str(body, "action"))
		if !ok {
			writeErrors(w, "RPT-422", "Unknown action")
			return
		}
		rep.Status = next
		m.reports[id] = rep
		writeData(w, map[string]bool{"processed": true})

	default:
		writeErrors(w, "SYS-404", "Unknown operation")
	}
}

// organizationDetails mirrors the backend's organization wire shape:
// location and description enabled, the rest of the optional fields absent.
func (m *MockBackend) organizationDetails() map[string]any {
	return map[string]any{
		"organizationId": "org-1",
		"baseCurrencyId": "cur-sgd",
		"expenseFields": map[string]organization.FieldTemplate{
			organization.FieldLocation:    {Name: "Location", Type: "text", Enabled: true},
			organization.FieldDescription: {Name: "Description", Type: "textView", Enabled: true},
			organization.FieldPaymentMode: {Name: "Payment Mode", Type: "dropdown", Enabled: false},
		},
		"categories": []organization.Category{
			{ID: "cat-1", Name: "Meals"},
			{ID: "cat-2", Name: "Travel"},
		},
		"currencies": []organization.Currency{
			{ID: "cur-sgd", Code: "SGD"},
			{ID: "cur-usd", Code: "USD"},
		},
	}
}

func applyExpensePayload(exp *model.Expense, body map[string]any) {
	if v, ok := body["categoryId"].(string); ok {
		exp.CategoryID = v
	}
	if v, ok := body["currencyId"].(string); ok {
		exp.CurrencyID = v
	}
	if v, ok := body["amount"].(float64); ok {
		exp.Amount = v
	}
	if v, ok := body["date"].(string); ok {
		if d, err := time.Parse("02 Jan 2006", v); err == nil {
			exp.Date = d
		}
	}
	if v, ok := body["location"].(string); ok {
		exp.Location = v
	}
	if v, ok := body["description"].(string); ok {
		exp.Description = v
	}
	if v, ok := body["reportId"].(string); ok {
		exp.ReportID = v
	}
}

func nextExpenseStatus(action string) (model.ExpenseStatus, bool) {
	switch action {
	case "recall":
		return model.ExpenseStatusUnsubmitted, true
	case "reject":
		return model.ExpenseStatusRejected, true
	case "archive":
		return model.ExpenseStatusReimbursed, true
	}
	return "", false
}

func nextReportStatus(action string) (model.ReportStatus, bool) {
	switch action {
	case "recall":
		return model.ReportStatusUnsubmitted, true
	case "reject":
		return model.ReportStatusRejected, true
	case "archive":
		return model.ReportStatusArchived, true
	}
	return "", false
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func writeErrors(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"errors": map[string]string{
		"errorCode":    code,
		"errorMessage": message,
	}})
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
