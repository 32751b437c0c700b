package client

import (
	"context"

	"github.com/kamau/expensa/internal/organization"
)

// organizationDetails is the backend wire shape for organization
// configuration.
type organizationDetails struct {
	OrganizationID string                                `json:"organizationId"`
	BaseCurrencyID string                                `json:"baseCurrencyId"`
	ExpenseFields  map[string]organization.FieldTemplate `json:"expenseFields"`
	Categories     []organization.Category               `json:"categories"`
	Currencies     []organization.Currency               `json:"currencies"`
}

// OrganizationService fetches organization configuration from the backend.
type OrganizationService struct {
	caller *Caller
}

// NewOrganizationService creates an OrganizationService.
func NewOrganizationService(caller *Caller) *OrganizationService {
	return &OrganizationService{caller: caller}
}

// Details fetches and indexes the organization configuration. Called once
// at startup; the result is read-only afterwards.
func (s *OrganizationService) Details(ctx context.Context) (*organization.Config, error) {
	var details organizationDetails
	if err := s.caller.Post(ctx, "/organization/details", map[string]string{}, &details); err != nil {
		return nil, err
	}
	return organization.New(
		details.OrganizationID,
		details.BaseCurrencyID,
		details.ExpenseFields,
		details.Categories,
		details.Currencies,
	), nil
}
