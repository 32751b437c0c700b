package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamau/expensa/internal/form"
	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// Wire shapes decoded by the tests. Declared locally so a change to the
// API surface breaks these tests instead of silently passing.

type fieldJSON struct {
	Name           string            `json:"name"`
	JSONParameter  string            `json:"jsonParameter"`
	FieldType      string            `json:"fieldType"`
	IsMandatory    bool              `json:"isMandatory"`
	CellIdentifier string            `json:"cellIdentifier"`
	Values         map[string]string `json:"values"`
}

type formJSON struct {
	Sections []struct {
		Fields []fieldJSON `json:"fields"`
	} `json:"sections"`
}

type actionItemJSON struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

type toolbarJSON struct {
	Strategy    string           `json:"strategy"`
	Editable    bool             `json:"editable"`
	Actions     []actionItemJSON `json:"actions"`
	MoreOptions []actionItemJSON `json:"moreOptions"`
}

type expenseDetailJSON struct {
	Expense         model.Expense `json:"expense"`
	CategoryName    string        `json:"categoryName"`
	FormattedAmount string        `json:"formattedAmount"`
	StatusLabel     string        `json:"statusLabel"`
	DateLabel       string        `json:"dateLabel"`
	IsEditable      bool          `json:"isEditable"`
	Toolbar         toolbarJSON   `json:"toolbar"`
}

type reportDetailJSON struct {
	Report         model.Report `json:"report"`
	FormattedTotal string       `json:"formattedTotal"`
	StatusLabel    string       `json:"statusLabel"`
	Toolbar        toolbarJSON  `json:"toolbar"`
}

type actionResponseJSON struct {
	Outcome struct {
		Kind    string           `json:"kind"`
		Route   string           `json:"route"`
		Options []actionItemJSON `json:"options"`
	} `json:"outcome"`
	Expense *expenseDetailJSON `json:"expense"`
}

func submitBody(entries ...form.ValueEntry) map[string]any {
	return map[string]any{"values": entries}
}

func travelEntries() []form.ValueEntry {
	return []form.ValueEntry{
		{JSONParameter: "categoryId", FieldType: form.FieldTypeCategory, Values: map[string]string{"id": "cat-2"}},
		{JSONParameter: "date", FieldType: form.FieldTypeDate, Values: map[string]string{"value": "14 Mar 2026"}},
		{FieldType: form.FieldTypeCurrencyAndAmount, Values: map[string]string{"id": "cur-usd", "amount": "120.5"}},
		{JSONParameter: "location", FieldType: form.FieldTypeText, Values: map[string]string{"value": "Jakarta"}},
	}
}

func TestExpenseLifecycle_create_edit_submit(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	// 1. A blank form carries the five sections with the mandatory trio
	// first and the organization's optional fields after.
	resp := h.GET(t, "/ui/forms/expense", token)
	AssertStatus(t, resp, http.StatusOK)

	var blank formJSON
	ParseJSON(t, resp, &blank)
	require.Len(t, blank.Sections, 5)
	assert.Equal(t, "cellCategory", blank.Sections[0].Fields[0].CellIdentifier)
	assert.Empty(t, blank.Sections[0].Fields[0].Values["id"])

	// 2. Create an expense.
	resp = h.POST(t, "/ui/expenses", token, submitBody(travelEntries()...))
	AssertStatus(t, resp, http.StatusCreated)

	var created model.Expense
	ParseJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.ExpenseStatusUnreported, created.Status)
	assert.Equal(t, "cat-2", created.CategoryID)
	assert.Equal(t, 120.5, created.Amount)
	assert.Equal(t, "Jakarta", created.Location)

	// 3. The detail view resolves lookups and reports the record editable.
	resp = h.GET(t, "/ui/expenses/"+created.ID, token)
	AssertStatus(t, resp, http.StatusOK)

	var detail expenseDetailJSON
	ParseJSON(t, resp, &detail)
	assert.Equal(t, "Travel", detail.CategoryName)
	assert.Equal(t, "USD 120.50", detail.FormattedAmount)
	assert.Equal(t, "UNREPORTED", detail.StatusLabel)
	assert.Equal(t, "14 Mar 2026", detail.DateLabel)
	assert.True(t, detail.IsEditable)
	assert.Equal(t, string(workflow.StrategyEditEnabled), detail.Toolbar.Strategy)

	// 4. Reopening the form in edit mode binds the stored record.
	resp = h.GET(t, "/ui/forms/expense?expenseId="+created.ID, token)
	AssertStatus(t, resp, http.StatusOK)

	var bound formJSON
	ParseJSON(t, resp, &bound)
	category := bound.Sections[0].Fields[0]
	assert.Equal(t, "cat-2", category.Values["id"])
	assert.Equal(t, "Travel", category.Values["value"])

	// 5. Updating only the amount keeps the bound location.
	resp = h.PUT(t, "/ui/expenses/"+created.ID, token, submitBody(
		form.ValueEntry{FieldType: form.FieldTypeCurrencyAndAmount, Values: map[string]string{"id": "cur-usd", "amount": "99"}},
	))
	AssertStatus(t, resp, http.StatusOK)

	stored := h.Backend.Expense(created.ID)
	assert.Equal(t, 99.0, stored.Amount)
	assert.Equal(t, "Jakarta", stored.Location)

	// 6. Submit opens the sub-flow without touching the record.
	resp = h.POST(t, fmt.Sprintf("/ui/expenses/%s/actions/submit", created.ID), token, nil)
	AssertStatus(t, resp, http.StatusOK)

	var action actionResponseJSON
	ParseJSON(t, resp, &action)
	assert.Equal(t, string(workflow.OutcomeNavigate), action.Outcome.Kind)
	assert.Equal(t, "/flows/submit/"+created.ID, action.Outcome.Route)
	assert.Equal(t, 0, h.Backend.Calls("/expense/process"))
}

func TestExpenseLifecycle_validation_never_reaches_backend(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	resp := h.POST(t, "/ui/expenses", token, submitBody())
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorBody
	ParseJSON(t, resp, &body)
	assert.Equal(t, model.ErrValidationError, body.Error.Code)
	assert.Equal(t, "Please select a category.", body.Error.Message)
	assert.Equal(t, 0, h.Backend.Calls("/expense/create"))
}

func TestExpenseLifecycle_recall_refreshes_from_backend(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	resp := h.POST(t, "/ui/expenses/exp-1/actions/recall", token, nil)
	AssertStatus(t, resp, http.StatusOK)

	var action actionResponseJSON
	ParseJSON(t, resp, &action)
	assert.Equal(t, string(workflow.OutcomeRefresh), action.Outcome.Kind)
	require.NotNil(t, action.Expense)
	assert.Equal(t, "UNSUBMITTED", action.Expense.StatusLabel)
	assert.True(t, action.Expense.IsEditable)

	assert.Equal(t, 1, h.Backend.Calls("/expense/process"))
	assert.Equal(t, model.ExpenseStatusUnsubmitted, h.Backend.Expense("exp-1").Status)
}

func TestExpenseLifecycle_reject_requires_confirmation(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	exp := h.Backend.Expense("exp-1")
	exp.Status = model.ExpenseStatusApproved
	h.Backend.SetExpense(exp)

	// Declined confirmation leaves the record untouched.
	resp := h.POST(t, "/ui/expenses/exp-1/actions/reject", token, map[string]bool{"confirmed": false})
	AssertStatus(t, resp, http.StatusOK)

	var action actionResponseJSON
	ParseJSON(t, resp, &action)
	assert.Equal(t, string(workflow.OutcomeNone), action.Outcome.Kind)
	assert.Equal(t, 0, h.Backend.Calls("/expense/process"))
	assert.Equal(t, model.ExpenseStatusApproved, h.Backend.Expense("exp-1").Status)

	// Confirmed reject commits and the response carries the refreshed view.
	resp = h.POST(t, "/ui/expenses/exp-1/actions/reject", token, map[string]bool{"confirmed": true})
	AssertStatus(t, resp, http.StatusOK)

	ParseJSON(t, resp, &action)
	assert.Equal(t, string(workflow.OutcomeRefresh), action.Outcome.Kind)
	require.NotNil(t, action.Expense)
	assert.Equal(t, "REJECTED", action.Expense.StatusLabel)
}

func TestExpenseLifecycle_more_options_on_approved(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	exp := h.Backend.Expense("exp-1")
	exp.Status = model.ExpenseStatusApproved
	h.Backend.SetExpense(exp)

	resp := h.POST(t, "/ui/expenses/exp-1/actions/moreOptions", token, nil)
	AssertStatus(t, resp, http.StatusOK)

	var action actionResponseJSON
	ParseJSON(t, resp, &action)
	assert.Equal(t, string(workflow.OutcomeOptions), action.Outcome.Kind)
	require.Len(t, action.Outcome.Options, 3)
	assert.Equal(t, string(workflow.ActionReject), action.Outcome.Options[0].Action)
}

func TestExpenseLifecycle_disallowed_action(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	resp := h.POST(t, "/ui/expenses/exp-1/actions/archive", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorBody
	ParseJSON(t, resp, &body)
	assert.Equal(t, model.ErrInvalidTransition, body.Error.Code)
	assert.Equal(t, 0, h.Backend.Calls("/expense/process"))
}

func TestExpenseLifecycle_update_locked_after_submission(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	resp := h.PUT(t, "/ui/expenses/exp-1", token, submitBody(travelEntries()...))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body errorBody
	ParseJSON(t, resp, &body)
	assert.Equal(t, model.ErrInvalidTransition, body.Error.Code)
	assert.Equal(t, 0, h.Backend.Calls("/expense/update"))
}

func TestReportLifecycle_recall_and_archive(t *testing.T) {
	h := NewTestHarness(t)
	token := h.Login(t)

	resp := h.GET(t, "/ui/reports/rep-1", token)
	AssertStatus(t, resp, http.StatusOK)

	var detail reportDetailJSON
	ParseJSON(t, resp, &detail)
	assert.Equal(t, "SGD 310.00", detail.FormattedTotal)
	assert.Equal(t, "SUBMITTED", detail.StatusLabel)
	assert.Equal(t, string(workflow.StrategySubmitted), detail.Toolbar.Strategy)

	resp = h.POST(t, "/ui/reports/rep-1/actions/recall", token, nil)
	AssertStatus(t, resp, http.StatusOK)
	assert.Equal(t, model.ReportStatusUnsubmitted, h.Backend.Report("rep-1").Status)

	// A reimbursed report archives into the terminal state.
	rep := h.Backend.Report("rep-1")
	rep.Status = model.ReportStatusReimbursed
	h.Backend.SetReport(rep)

	resp = h.POST(t, "/ui/reports/rep-1/actions/archive", token, nil)
	AssertStatus(t, resp, http.StatusOK)
	assert.Equal(t, model.ReportStatusArchived, h.Backend.Report("rep-1").Status)
}
