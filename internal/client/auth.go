package client

import "context"

// LoginResult is the authenticated member returned by the backend.
type LoginResult struct {
	MemberID       string `json:"memberId"`
	FullName       string `json:"fullName"`
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
}

// AuthAPI is the authentication surface the login handler consumes.
type AuthAPI interface {
	Login(ctx context.Context, organizationName, memberName, password string) (LoginResult, error)
}

// AuthService implements AuthAPI against the backend.
type AuthService struct {
	caller *Caller
}

// NewAuthService creates an AuthService.
func NewAuthService(caller *Caller) *AuthService {
	return &AuthService{caller: caller}
}

// Login authenticates a member.
func (s *AuthService) Login(ctx context.Context, organizationName, memberName, password string) (LoginResult, error) {
	var result LoginResult
	err := s.caller.Post(ctx, "/authentication/login", map[string]string{
		"organizationName": organizationName,
		"memberName":       memberName,
		"password":         password,
	}, &result)
	return result, err
}
