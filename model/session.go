package model

import "context"

// Member roles recognized by the dashboard selection logic.
const (
	RoleSubmitter = "submitter"
	RoleApprover  = "approver"
	RoleAdmin     = "admin"
)

// Session carries the authenticated member's identity for the lifetime of
// one request. It is immutable after construction and safe for concurrent
// reads.
type Session struct {
	MemberID       string
	FullName       string
	OrganizationID string
	Role           string
	CorrelationID  string
}

// DashboardRoute returns the initial dashboard route for the member's role.
// Approvers and admins land on the approval dashboard, everyone else on the
// submitter dashboard.
func (s *Session) DashboardRoute() string {
	if s.Role == RoleApprover || s.Role == RoleAdmin {
		return "/dashboard/approver"
	}
	return "/dashboard/submitter"
}

type sessionKey struct{}

// WithSession attaches a Session to the given context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom extracts the Session from the context, or returns nil if not
// present.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
