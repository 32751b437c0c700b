package client

import (
	"context"

	"github.com/kamau/expensa/model"
)

// ExpenseAPI is the narrow interface the detail manager and handlers
// consume.
type ExpenseAPI interface {
	Details(ctx context.Context, expenseID string) (model.Expense, error)
	Create(ctx context.Context, payload model.Payload) (model.Expense, error)
	Update(ctx context.Context, expenseID string, payload model.Payload) (model.Expense, error)
	Process(ctx context.Context, expenseID, action string) error
}

// ExpenseService implements ExpenseAPI against the backend.
type ExpenseService struct {
	caller *Caller
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(caller *Caller) *ExpenseService {
	return &ExpenseService{caller: caller}
}

// Details fetches one expense by id.
func (s *ExpenseService) Details(ctx context.Context, expenseID string) (model.Expense, error) {
	var expense model.Expense
	err := s.caller.Post(ctx, "/expense/details", map[string]string{"expenseId": expenseID}, &expense)
	return expense, err
}

// Create submits a new expense payload.
func (s *ExpenseService) Create(ctx context.Context, payload model.Payload) (model.Expense, error) {
	var expense model.Expense
	err := s.caller.Post(ctx, "/expense/create", payload, &expense)
	return expense, err
}

// Update submits an edited expense payload.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, payload model.Payload) (model.Expense, error) {
	body := make(model.Payload, len(payload)+1)
	body.Merge(payload)
	body["expenseId"] = model.IDValue(expenseID)

	var expense model.Expense
	err := s.caller.Post(ctx, "/expense/update", body, &expense)
	return expense, err
}

// Process applies a workflow action (reject, recall, archive) to an
// expense. The caller re-fetches afterwards for the authoritative status.
func (s *ExpenseService) Process(ctx context.Context, expenseID, action string) error {
	return s.caller.Post(ctx, "/expense/process", map[string]string{
		"expenseId": expenseID,
		"action":    action,
	}, nil)
}
