package form

import (
	"strconv"

	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/model"
)

// Binder populates a form's field values from an existing expense for edit
// mode. Reference fields additionally resolve their display names through
// the organization lookup tables.
type Binder struct {
	org *organization.Config
}

// NewBinder creates a Binder reading display names from the given
// organization configuration.
func NewBinder(org *organization.Config) *Binder {
	return &Binder{org: org}
}

// Bind visits every field exactly once and copies the matching expense
// attribute into the field's value map. Fields are matched by JSON
// parameter, or by type for the composite currency+amount field. Unmatched
// fields are left with empty values; a missing lookup id yields an empty
// display string rather than an error. Binding is total and
// order-independent.
func (b *Binder) Bind(f *Form, expense model.Expense) {
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			b.bindField(&f.Sections[si].Fields[fi], expense)
		}
	}
}

func (b *Binder) bindField(field *Field, expense model.Expense) {
	// The composite currency+amount field has no JSON parameter of its
	// own and is matched by type.
	if field.Type == FieldTypeCurrencyAndAmount {
		field.SetValue(KeyID, expense.CurrencyID)
		field.SetValue(KeyValue, b.org.CurrencyCode(expense.CurrencyID))
		field.SetValue(KeyAmount, strconv.FormatFloat(expense.Amount, 'f', -1, 64))
		return
	}

	switch field.JSONParameter {
	case ParamCategoryID:
		field.SetValue(KeyID, expense.CategoryID)
		field.SetValue(KeyValue, b.org.CategoryName(expense.CategoryID))
	case ParamDate:
		if !expense.Date.IsZero() {
			field.SetValue(KeyValue, model.DisplayDate(expense.Date))
		}
	case ParamReportID:
		field.SetValue(KeyID, expense.ReportID)
		field.SetValue(KeyValue, expense.ReportTitle)
	case organization.FieldMerchant:
		field.SetValue(KeyValue, expense.MerchantName)
	case organization.FieldReference:
		field.SetValue(KeyValue, expense.ReferenceNumber)
	case organization.FieldLocation:
		field.SetValue(KeyValue, expense.Location)
	case organization.FieldDescription:
		field.SetValue(KeyValue, expense.Description)
	case organization.FieldPaymentMode:
		field.SetValue(KeyValue, expense.PaymentMode)
	default:
		// Organization-defined custom fields carry their values in the
		// expense's opaque custom field map.
		if v, ok := expense.CustomFields[field.JSONParameter]; ok {
			field.SetValue(KeyValue, v)
		}
	}
}
