// Package workflow implements the status-driven workflow engine: a pure
// mapping from record status to a toolbar strategy governing which actions
// are legal, and the engine executing each action's transition.
package workflow

import (
	"fmt"

	"github.com/kamau/expensa/model"
)

// Action is one toolbar action a strategy may offer.
type Action string

const (
	ActionSubmit              Action = "submit"
	ActionRecall              Action = "recall"
	ActionReject              Action = "reject"
	ActionRecordReimbursement Action = "recordReimbursement"
	ActionArchive             Action = "archive"
	ActionViewPDF             Action = "viewPdf"
	ActionMoreOptions         Action = "moreOptions"
)

// actionLabels are the display labels for toolbar buttons.
var actionLabels = map[Action]string{
	ActionSubmit:              "Submit",
	ActionRecall:              "Recall",
	ActionReject:              "Reject",
	ActionRecordReimbursement: "Record Reimbursement",
	ActionArchive:             "Archive",
	ActionViewPDF:             "View PDF",
	ActionMoreOptions:         "More Options",
}

// ActionItem is one labeled toolbar action.
type ActionItem struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
}

func item(a Action) ActionItem {
	return ActionItem{Action: a, Label: actionLabels[a]}
}

// StrategyKind is the closed set of toolbar strategies.
type StrategyKind string

const (
	StrategyEditEnabled      StrategyKind = "editEnabled"
	StrategySubmitted        StrategyKind = "submitted"
	StrategyApprovalApproved StrategyKind = "approvalApproved"
	StrategyEditDisabled     StrategyKind = "editDisabled"
)

// Strategy is a tagged variant carrying only the action sets the toolbar
// needs. Strategies are value types with no hidden manager reference.
type Strategy struct {
	Kind     StrategyKind
	Editable bool

	actions     []ActionItem
	moreOptions []ActionItem
}

// AvailableActions returns the ordered toolbar button set.
func (s Strategy) AvailableActions() []ActionItem {
	out := make([]ActionItem, len(s.actions))
	copy(out, s.actions)
	return out
}

// MoreOptions returns the ordered action-sheet expansion for the
// more-options button; empty for strategies without one.
func (s Strategy) MoreOptions() []ActionItem {
	out := make([]ActionItem, len(s.moreOptions))
	copy(out, s.moreOptions)
	return out
}

// Allows reports whether the strategy offers the action, either on the
// toolbar or inside the more-options expansion.
func (s Strategy) Allows(a Action) bool {
	for _, it := range s.actions {
		if it.Action == a {
			return true
		}
	}
	for _, it := range s.moreOptions {
		if it.Action == a {
			return true
		}
	}
	return false
}

// strategyOf builds the strategy variant for a kind.
func strategyOf(kind StrategyKind) Strategy {
	switch kind {
	case StrategyEditEnabled:
		return Strategy{
			Kind:     StrategyEditEnabled,
			Editable: true,
			actions:  []ActionItem{item(ActionSubmit)},
		}
	case StrategySubmitted:
		return Strategy{
			Kind:    StrategySubmitted,
			actions: []ActionItem{item(ActionRecall), item(ActionViewPDF)},
		}
	case StrategyApprovalApproved:
		return Strategy{
			Kind: StrategyApprovalApproved,
			actions: []ActionItem{
				item(ActionReject), item(ActionViewPDF), item(ActionMoreOptions),
			},
			moreOptions: []ActionItem{
				item(ActionReject), item(ActionRecordReimbursement), item(ActionViewPDF),
			},
		}
	default:
		return Strategy{
			Kind:    StrategyEditDisabled,
			actions: []ActionItem{item(ActionArchive), item(ActionViewPDF)},
		}
	}
}

// SelectExpenseStrategy is the pure function from expense status to
// toolbar strategy.
func SelectExpenseStrategy(status model.ExpenseStatus) (Strategy, error) {
	switch status {
	case model.ExpenseStatusUnreported, model.ExpenseStatusUnsubmitted, model.ExpenseStatusRejected:
		return strategyOf(StrategyEditEnabled), nil
	case model.ExpenseStatusSubmitted:
		return strategyOf(StrategySubmitted), nil
	case model.ExpenseStatusApproved:
		return strategyOf(StrategyApprovalApproved), nil
	case model.ExpenseStatusReimbursed:
		return strategyOf(StrategyEditDisabled), nil
	default:
		return Strategy{}, fmt.Errorf("workflow: unknown expense status %q", status)
	}
}

// SelectReportStrategy is the pure function from report status to toolbar
// strategy.
func SelectReportStrategy(status model.ReportStatus) (Strategy, error) {
	switch status {
	case model.ReportStatusUnsubmitted, model.ReportStatusRejected:
		return strategyOf(StrategyEditEnabled), nil
	case model.ReportStatusSubmitted:
		return strategyOf(StrategySubmitted), nil
	case model.ReportStatusApproved:
		return strategyOf(StrategyApprovalApproved), nil
	case model.ReportStatusReimbursed, model.ReportStatusArchived:
		return strategyOf(StrategyEditDisabled), nil
	default:
		return Strategy{}, fmt.Errorf("workflow: unknown report status %q", status)
	}
}
