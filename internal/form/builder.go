package form

import "github.com/kamau/expensa/internal/organization"

// Builder assembles the expense form from organization configuration.
type Builder struct {
	org *organization.Config
}

// NewBuilder creates a Builder reading from the given organization
// configuration.
func NewBuilder(org *organization.Config) *Builder {
	return &Builder{org: org}
}

// Build produces the five-section expense form. Section layout is fixed:
//
//	1. category, date, currency+amount (always, mandatory)
//	2. payment mode (iff enabled)
//	3. merchant, reference, location, description (each iff enabled)
//	4. billable, customer, project (each iff enabled) + add-to-report (always)
//	5. image attachment (always)
//
// An optional field appears iff the organization exposes its key with the
// enabled flag set; an absent key is equivalent to disabled. Every call
// returns an independent field set.
func (b *Builder) Build() Form {
	var f Form

	// Section 1: the mandatory trio.
	category := NewField("Category", ParamCategoryID, FieldTypeCategory, true)
	date := NewField("Date", ParamDate, FieldTypeDate, true)
	currencyAndAmount := NewField("", "", FieldTypeCurrencyAndAmount, true)
	f.Sections = append(f.Sections, Section{Fields: []Field{category, date, currencyAndAmount}})

	// Section 2: payment mode.
	var sectionTwo Section
	if tmpl, ok := b.optionalField(organization.FieldPaymentMode); ok {
		sectionTwo.Fields = append(sectionTwo.Fields, tmpl)
	}
	f.Sections = append(f.Sections, sectionTwo)

	// Section 3: merchant, reference, location, description.
	var sectionThree Section
	for _, key := range []string{
		organization.FieldMerchant,
		organization.FieldReference,
		organization.FieldLocation,
		organization.FieldDescription,
	} {
		if tmpl, ok := b.optionalField(key); ok {
			sectionThree.Fields = append(sectionThree.Fields, tmpl)
		}
	}
	f.Sections = append(f.Sections, sectionThree)

	// Section 4: billable, customer, project, then add-to-report.
	var sectionFour Section
	for _, key := range []string{
		organization.FieldIsBillable,
		organization.FieldCustomer,
		organization.FieldProject,
	} {
		if tmpl, ok := b.optionalField(key); ok {
			sectionFour.Fields = append(sectionFour.Fields, tmpl)
		}
	}
	addToReport := NewField("Add to Report", ParamReportID, FieldTypeDropdown, false)
	sectionFour.Fields = append(sectionFour.Fields, addToReport)
	f.Sections = append(f.Sections, sectionFour)

	// Section 5: image attachment.
	attachImage := NewField("", "", FieldTypeImageSelection, true)
	f.Sections = append(f.Sections, Section{Fields: []Field{attachImage}})

	return f
}

// optionalField materializes an organization field template into a Field.
// Returns false when the key is absent or disabled.
func (b *Builder) optionalField(key string) (Field, bool) {
	tmpl, ok := b.org.Field(key)
	if !ok || !tmpl.Enabled {
		return Field{}, false
	}
	return NewField(tmpl.Name, key, templateFieldType(tmpl.Type), tmpl.Mandatory), true
}

// templateFieldType maps an organization template type string to a
// FieldType, defaulting to plain text.
func templateFieldType(t string) FieldType {
	switch FieldType(t) {
	case FieldTypeTextView:
		return FieldTypeTextView
	case FieldTypeDropdown:
		return FieldTypeDropdown
	case FieldTypeDate:
		return FieldTypeDate
	default:
		return FieldTypeText
	}
}
