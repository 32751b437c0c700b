package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/detail"
	"github.com/kamau/expensa/internal/form"
	"github.com/kamau/expensa/internal/observability"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/workflow"
	"github.com/kamau/expensa/model"
)

// submitRequest carries the user-entered form values posted on create and
// update.
type submitRequest struct {
	Values []form.ValueEntry `json:"values"`
}

// toolbarView is the wire shape of a toolbar strategy.
type toolbarView struct {
	Strategy    workflow.StrategyKind `json:"strategy"`
	Editable    bool                  `json:"editable"`
	Actions     []workflow.ActionItem `json:"actions"`
	MoreOptions []workflow.ActionItem `json:"moreOptions,omitempty"`
}

func toolbarOf(s workflow.Strategy) toolbarView {
	return toolbarView{
		Strategy:    s.Kind,
		Editable:    s.Editable,
		Actions:     s.AvailableActions(),
		MoreOptions: s.MoreOptions(),
	}
}

// expenseView is the wire shape of the expense detail screen.
type expenseView struct {
	Expense         model.Expense         `json:"expense"`
	CategoryName    string                `json:"categoryName"`
	FormattedAmount string                `json:"formattedAmount"`
	StatusLabel     string                `json:"statusLabel"`
	DateLabel       string                `json:"dateLabel"`
	IsEditable      bool                  `json:"isEditable"`
	DisplayFields   []detail.DisplayField `json:"displayFields"`
	AuditEntries    []detail.AuditEntry   `json:"auditEntries"`
	Toolbar         toolbarView           `json:"toolbar"`
}

func expenseViewOf(m *detail.ExpenseDetails) (expenseView, error) {
	strategy, err := m.Strategy()
	if err != nil {
		return expenseView{}, model.NewBadRequestError(err.Error())
	}
	return expenseView{
		Expense:         m.Expense(),
		CategoryName:    m.CategoryName(),
		FormattedAmount: m.FormattedAmount(),
		StatusLabel:     m.StatusLabel(),
		DateLabel:       m.DateLabel(),
		IsEditable:      m.IsEditable(),
		DisplayFields:   m.DisplayFields(),
		AuditEntries:    m.AuditEntries(),
		Toolbar:         toolbarOf(strategy),
	}, nil
}

// submitExpenseForm applies posted values to a form, validates, and builds
// the submission payload. Returns a nil payload when validation fails.
func submitExpenseForm(f *form.Form, values []form.ValueEntry, metrics *observability.Metrics) (model.Payload, *model.ErrorEnvelope) {
	form.ApplyValues(f, values)
	if ok, msg := form.ValidateAll(f); !ok {
		if metrics != nil {
			metrics.ValidationFailuresTotal.Inc()
		}
		return nil, model.NewValidationError(msg)
	}
	return form.BuildPayload(f), nil
}

func handleCreateExpense(builder *form.Builder, expenses client.ExpenseAPI, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("Malformed request body"))
			return
		}

		f := builder.Build()
		payload, verr := submitExpenseForm(&f, req.Values, metrics)
		if verr != nil {
			WriteError(w, verr)
			return
		}

		expense, err := expenses.Create(r.Context(), payload)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, expense)
	}
}

// handleUpdateExpense rebuilds the form, binds the stored expense so
// untouched fields keep their values, then applies the posted deltas.
func handleUpdateExpense(builder *form.Builder, binder *form.Binder, expenses client.ExpenseAPI, metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenseID := chi.URLParam(r, "expenseId")

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("Malformed request body"))
			return
		}

		current, err := expenses.Details(r.Context(), expenseID)
		if err != nil {
			WriteError(w, err)
			return
		}
		if !editableExpense(current.Status) {
			WriteError(w, model.NewInvalidTransitionError("Expense can no longer be edited"))
			return
		}

		f := builder.Build()
		binder.Bind(&f, current)

		payload, verr := submitExpenseForm(&f, req.Values, metrics)
		if verr != nil {
			WriteError(w, verr)
			return
		}

		expense, err := expenses.Update(r.Context(), expenseID, payload)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, expense)
	}
}

func editableExpense(status model.ExpenseStatus) bool {
	switch status {
	case model.ExpenseStatusUnreported, model.ExpenseStatusUnsubmitted, model.ExpenseStatusRejected:
		return true
	}
	return false
}

func handleGetExpense(expenses client.ExpenseAPI, org *organization.Config, engine *workflow.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := detail.NewExpenseDetails(expenses, org, engine)
		if _, err := m.Fetch(r.Context(), chi.URLParam(r, "expenseId")); err != nil {
			WriteError(w, err)
			return
		}

		view, err := expenseViewOf(m)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
	}
}

func handleExpenseToolbar(expenses client.ExpenseAPI, org *organization.Config, engine *workflow.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := detail.NewExpenseDetails(expenses, org, engine)
		if _, err := m.Fetch(r.Context(), chi.URLParam(r, "expenseId")); err != nil {
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

// actionRequest carries the confirmation flag for actions that prompt
// before committing.
type actionRequest struct {
	Confirmed bool `json:"confirmed"`
}

// actionResponse returns the action's outcome; refresh outcomes include
// the re-fetched detail view.
type actionResponse struct {
	Outcome workflow.Outcome `json:"outcome"`
	Expense *expenseView     `json:"expense,omitempty"`
}

func handleExpenseAction(expenses client.ExpenseAPI, org *organization.Config, engine *workflow.Engine, metrics *observability.Metrics) http.HandlerFunc {
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

		m := detail.NewExpenseDetails(expenses, org, engine)
		if _, err := m.Fetch(ctx, chi.URLParam(r, "expenseId")); err != nil {
			WriteError(w, err)
			return
		}

		outcome, err := m.PerformAction(ctx, action)
		if metrics != nil {
			metrics.ActionsTotal.WithLabelValues("expense", string(action), actionResult(outcome, err)).Inc()
		}
		if err != nil {
			WriteError(w, err)
			return
		}

		resp := actionResponse{Outcome: outcome}
		if outcome.Kind == workflow.OutcomeRefresh {
			view, verr := expenseViewOf(m)
			if verr != nil {
				WriteError(w, verr)
				return
			}
			resp.Expense = &view
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func actionResult(outcome workflow.Outcome, err error) string {
	if err != nil {
		return "error"
	}
	return string(outcome.Kind)
}
