package form

import (
	"testing"
	"time"

	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/model"
)

func sampleExpense() model.Expense {
	return model.Expense{
		ID:              "exp-1",
		Status:          model.ExpenseStatusUnsubmitted,
		CategoryID:      "cat-2",
		Date:            time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CurrencyID:      "cur-usd",
		Amount:          42.5,
		MerchantName:    "Acme Catering",
		ReferenceNumber: "REF-77",
		Location:        "Singapore",
		Description:     "Team lunch",
		PaymentMode:     "Corporate Card",
		ReportID:        "rep-9",
		ReportTitle:     "March Expenses",
	}
}

func findField(f *Form, param string) *Field {
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			if f.Sections[si].Fields[fi].JSONParameter == param {
				return &f.Sections[si].Fields[fi]
			}
		}
	}
	return nil
}

func findFieldByType(f *Form, typ FieldType) *Field {
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			if f.Sections[si].Fields[fi].Type == typ {
				return &f.Sections[si].Fields[fi]
			}
		}
	}
	return nil
}

func TestBind_category_resolves_display_name(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	cat := findField(&f, ParamCategoryID)
	if cat.Value(KeyID) != "cat-2" {
		t.Errorf("category id = %q, want cat-2", cat.Value(KeyID))
	}
	if cat.Value(KeyValue) != "Travel" {
		t.Errorf("category value = %q, want Travel", cat.Value(KeyValue))
	}
}

func TestBind_currency_and_amount_matched_by_type(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	cur := findFieldByType(&f, FieldTypeCurrencyAndAmount)
	if cur.Value(KeyID) != "cur-usd" {
		t.Errorf("currency id = %q, want cur-usd", cur.Value(KeyID))
	}
	if cur.Value(KeyValue) != "USD" {
		t.Errorf("currency value = %q, want USD", cur.Value(KeyValue))
	}
	if cur.Value(KeyAmount) != "42.5" {
		t.Errorf("amount = %q, want 42.5", cur.Value(KeyAmount))
	}
}

func TestBind_date_formatting(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	date := findField(&f, ParamDate)
	if date.Value(KeyValue) != "14 Mar 2026" {
		t.Errorf("date value = %q, want 14 Mar 2026", date.Value(KeyValue))
	}
}

func TestBind_zero_date_left_empty(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	expense := sampleExpense()
	expense.Date = time.Time{}
	NewBinder(org).Bind(&f, expense)

	if got := findField(&f, ParamDate).Value(KeyValue); got != "" {
		t.Errorf("zero date bound as %q, want empty", got)
	}
}

func TestBind_text_attributes(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	tests := []struct {
		param string
		want  string
	}{
		{organization.FieldMerchant, "Acme Catering"},
		{organization.FieldReference, "REF-77"},
		{organization.FieldLocation, "Singapore"},
		{organization.FieldDescription, "Team lunch"},
		{organization.FieldPaymentMode, "Corporate Card"},
	}
	for _, tt := range tests {
		field := findField(&f, tt.param)
		if field == nil {
			t.Fatalf("field %q not built", tt.param)
		}
		if got := field.Value(KeyValue); got != tt.want {
			t.Errorf("field %q value = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestBind_report_reference(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	report := findField(&f, ParamReportID)
	if report.Value(KeyID) != "rep-9" {
		t.Errorf("report id = %q, want rep-9", report.Value(KeyID))
	}
	if report.Value(KeyValue) != "March Expenses" {
		t.Errorf("report value = %q, want March Expenses", report.Value(KeyValue))
	}
}

func TestBind_missing_lookup_yields_empty_string(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	expense := sampleExpense()
	expense.CategoryID = "cat-unknown"
	expense.CurrencyID = "cur-unknown"
	NewBinder(org).Bind(&f, expense)

	if got := findField(&f, ParamCategoryID).Value(KeyValue); got != "" {
		t.Errorf("unknown category bound display %q, want empty", got)
	}
	if got := findFieldByType(&f, FieldTypeCurrencyAndAmount).Value(KeyValue); got != "" {
		t.Errorf("unknown currency bound display %q, want empty", got)
	}
}

func TestBind_custom_field_from_map(t *testing.T) {
	org := organization.New("org-x", "cur-sgd", map[string]organization.FieldTemplate{
		organization.FieldProject: {Name: "Project", Type: "text", Enabled: true},
	}, nil, nil)
	f := NewBuilder(org).Build()

	expense := sampleExpense()
	expense.CustomFields = map[string]string{organization.FieldProject: "Apollo"}
	NewBinder(org).Bind(&f, expense)

	if got := findField(&f, organization.FieldProject).Value(KeyValue); got != "Apollo" {
		t.Errorf("project value = %q, want Apollo", got)
	}
}

func TestBind_then_payload_round_trip(t *testing.T) {
	org := fullOrg()
	f := NewBuilder(org).Build()
	NewBinder(org).Bind(&f, sampleExpense())

	payload := BuildPayload(&f)

	if payload[ParamCategoryID].String() != "cat-2" {
		t.Errorf("payload categoryId = %q", payload[ParamCategoryID].String())
	}
	if payload[ParamCurrencyID].String() != "cur-usd" {
		t.Errorf("payload currencyId = %q", payload[ParamCurrencyID].String())
	}
	if payload[ParamAmount].Num != 42.5 {
		t.Errorf("payload amount = %v, want 42.5", payload[ParamAmount].Num)
	}
	if payload[organization.FieldLocation].String() != "Singapore" {
		t.Errorf("payload location = %q", payload[organization.FieldLocation].String())
	}
	if payload[organization.FieldDescription].String() != "Team lunch" {
		t.Errorf("payload description = %q", payload[organization.FieldDescription].String())
	}
}
