package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kamau/expensa/model"
)

// Record is the unit the engine operates on: an expense or a report.
type Record interface {
	RecordID() string
}

// OutcomeKind tags the result of performing an action.
type OutcomeKind string

const (
	// OutcomeNone means nothing changed — the user cancelled confirmation.
	OutcomeNone OutcomeKind = "none"
	// OutcomeRefresh means the transition was applied upstream and the
	// caller must re-fetch the record for its authoritative status.
	OutcomeRefresh OutcomeKind = "refresh"
	// OutcomeNavigate means the action opens a sub-flow; its completion
	// callback triggers a re-fetch.
	OutcomeNavigate OutcomeKind = "navigate"
	// OutcomeOptions means the action expands into further actions.
	OutcomeOptions OutcomeKind = "options"
)

// Outcome is the result of performing one toolbar action.
type Outcome struct {
	Kind    OutcomeKind  `json:"kind"`
	Route   string       `json:"route,omitempty"`
	Options []ActionItem `json:"options,omitempty"`
}

// Confirmer is the confirmation-dialog collaborator. Reject commits only
// after Confirm returns true; returning false leaves the record untouched
// and makes no upstream call.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// TransitionFunc performs the upstream state-changing call for one action
// on one record.
type TransitionFunc func(ctx context.Context, recordID string, action Action) error

// Engine executes toolbar actions. It holds no per-record state; the
// per-record in-flight guard is the only shared resource.
type Engine struct {
	guard     TransitionGuard
	confirmer Confirmer
	logger    *zap.Logger
}

// NewEngine creates an Engine using the given guard and confirmation
// collaborator.
func NewEngine(guard TransitionGuard, confirmer Confirmer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{guard: guard, confirmer: confirmer, logger: logger}
}

// Perform executes one action against a record under the given strategy.
// Transition actions call upstream and yield OutcomeRefresh; the engine
// never predicts the post-transition state locally — the caller re-fetches
// for the authoritative status. Sub-flow actions yield OutcomeNavigate
// without touching the record.
func (e *Engine) Perform(
	ctx context.Context,
	strategy Strategy,
	action Action,
	rec Record,
	transition TransitionFunc,
) (Outcome, error) {
	if !strategy.Allows(action) {
		return Outcome{}, model.NewInvalidTransitionError(
			fmt.Sprintf("action %q is not available for strategy %q", action, strategy.Kind),
		)
	}

	switch action {
	case ActionMoreOptions:
		return Outcome{Kind: OutcomeOptions, Options: strategy.MoreOptions()}, nil

	case ActionViewPDF:
		return Outcome{Kind: OutcomeNavigate, Route: navigationRoute(action, rec)}, nil

	case ActionSubmit, ActionRecordReimbursement:
		// Sub-flows own their own transition; completion triggers a
		// re-fetch on the detail screen.
		return Outcome{Kind: OutcomeNavigate, Route: navigationRoute(action, rec)}, nil

	case ActionReject:
		confirmed, err := e.confirmer.Confirm(ctx, "Reject this record?")
		if err != nil {
			return Outcome{}, err
		}
		if !confirmed {
			return Outcome{Kind: OutcomeNone}, nil
		}
		return e.applyTransition(ctx, action, rec, transition)

	case ActionRecall, ActionArchive:
		return e.applyTransition(ctx, action, rec, transition)

	default:
		return Outcome{}, model.NewInvalidTransitionError(
			fmt.Sprintf("unknown action %q", action),
		)
	}
}

// applyTransition runs the upstream call under the per-record guard.
func (e *Engine) applyTransition(
	ctx context.Context,
	action Action,
	rec Record,
	transition TransitionFunc,
) (Outcome, error) {
	release, err := e.guard.Acquire(ctx, rec.RecordID())
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	if transition == nil {
		return Outcome{}, model.NewInternalError()
	}

	if err := transition(ctx, rec.RecordID(), action); err != nil {
		e.logger.Warn("transition failed",
			zap.String("record_id", rec.RecordID()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return Outcome{}, err
	}

	e.logger.Info("transition applied",
		zap.String("record_id", rec.RecordID()),
		zap.String("action", string(action)),
	)
	return Outcome{Kind: OutcomeRefresh}, nil
}

// navigationRoute builds the sub-flow route an action opens.
func navigationRoute(action Action, rec Record) string {
	switch action {
	case ActionSubmit:
		return fmt.Sprintf("/flows/submit/%s", rec.RecordID())
	case ActionRecordReimbursement:
		return fmt.Sprintf("/flows/record-reimbursement/%s", rec.RecordID())
	case ActionViewPDF:
		return fmt.Sprintf("/flows/pdf/%s", rec.RecordID())
	default:
		return ""
	}
}
