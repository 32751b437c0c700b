// Package form implements the dynamic expense form: a typed, ordered set of
// fields assembled from organization configuration, bound to an existing
// expense in edit mode, validated per field type, and flattened into a
// single submission payload.
package form

// FieldType is the closed set of form field types. Each type selects the
// visual control the client renders and the validation rule applied on
// submission.
type FieldType string

const (
	FieldTypeCategory          FieldType = "category"
	FieldTypeDate              FieldType = "date"
	FieldTypeCurrencyAndAmount FieldType = "currencyAndAmount"
	FieldTypeText              FieldType = "text"
	FieldTypeTextView          FieldType = "textView"
	FieldTypeImageSelection    FieldType = "imageSelection"
	FieldTypeDropdown          FieldType = "dropdown"
)

// Keys of the per-field value map. Reference-typed fields carry both the
// underlying id and the human-readable display string; the composite
// currency+amount field additionally carries the amount.
const (
	KeyID     = "id"
	KeyValue  = "value"
	KeyAmount = "amount"
)

// JSON parameter keys for the mandatory fields and the add-to-report
// dropdown. Optional field keys live in the organization package since the
// organization configuration is keyed by them.
const (
	ParamCategoryID = "categoryId"
	ParamDate       = "date"
	ParamCurrencyID = "currencyId"
	ParamAmount     = "amount"
	ParamReportID   = "reportId"
)

// Field is one form field definition and its current value. Fields are
// constructed fresh per screen load and mutated in place as the user edits.
type Field struct {
	// Name is the display label; empty for fields whose type supplies its
	// own chrome (currency+amount, image).
	Name string `json:"name"`
	// JSONParameter is the key used when serializing this field into the
	// submission payload. Empty for composite fields that emit multiple
	// keys.
	JSONParameter string    `json:"jsonParameter"`
	Type          FieldType `json:"fieldType"`
	IsMandatory   bool      `json:"isMandatory"`
	IsEnabled     bool      `json:"isEnabled"`
	// Values maps the fixed key set {id, value, amount} to strings.
	Values map[string]string `json:"values"`
}

// NewField constructs an enabled field with an empty value map.
func NewField(name, jsonParameter string, t FieldType, mandatory bool) Field {
	return Field{
		Name:          name,
		JSONParameter: jsonParameter,
		Type:          t,
		IsMandatory:   mandatory,
		IsEnabled:     true,
		Values:        make(map[string]string),
	}
}

// Value returns the value stored under key, or the empty string.
func (f *Field) Value(key string) string {
	return f.Values[key]
}

// SetValue stores v under key, allocating the value map if needed.
func (f *Field) SetValue(key, v string) {
	if f.Values == nil {
		f.Values = make(map[string]string)
	}
	f.Values[key] = v
}

// CellIdentifier returns the presentation type tag selecting which visual
// control renders this field.
func (f *Field) CellIdentifier() string {
	switch f.Type {
	case FieldTypeCategory:
		return "cellCategory"
	case FieldTypeDate:
		return "cellDate"
	case FieldTypeCurrencyAndAmount:
		return "cellCurrencyAndAmount"
	case FieldTypeTextView:
		return "cellTextView"
	case FieldTypeImageSelection:
		return "cellImageSelection"
	case FieldTypeDropdown:
		return "cellMultipleSelection"
	default:
		return "cellTextField"
	}
}

// Section is an ordered group of fields rendered together. Section
// membership drives visual grouping and is part of the form contract.
type Section struct {
	Fields []Field `json:"fields"`
}

// Form is the ordered sequence of sections making up one screen's field
// set. A form is owned by exactly one screen visit and discarded when the
// screen closes.
type Form struct {
	Sections []Section `json:"sections"`
}
