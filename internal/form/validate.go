package form

import (
	"fmt"
	"strconv"

	"github.com/kamau/expensa/model"
)

// ValidateAll checks every field against its type's rule in section-major,
// row-minor order and short-circuits on the first failure, returning that
// field's error message. All-pass returns success with an empty message.
func ValidateAll(f *Form) (bool, string) {
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			if ok, msg := validateField(&f.Sections[si].Fields[fi]); !ok {
				return false, msg
			}
		}
	}
	return true, ""
}

func validateField(field *Field) (bool, string) {
	switch field.Type {
	case FieldTypeCategory:
		if field.Value(KeyID) == "" {
			return false, "Please select a category."
		}
	case FieldTypeDate:
		if field.IsMandatory && field.Value(KeyValue) == "" {
			return false, "Please select a date."
		}
	case FieldTypeCurrencyAndAmount:
		if field.Value(KeyID) == "" {
			return false, "Please select a currency."
		}
		amount, err := strconv.ParseFloat(field.Value(KeyAmount), 64)
		if err != nil || amount <= 0 {
			return false, "Please enter a valid amount."
		}
	case FieldTypeDropdown:
		if field.IsMandatory && field.Value(KeyID) == "" {
			return false, fmt.Sprintf("Please select %s.", fieldLabel(field))
		}
	case FieldTypeImageSelection:
		// Image capture is handled outside the core; never blocks submission.
	default:
		if field.IsMandatory && field.Value(KeyValue) == "" {
			return false, fmt.Sprintf("Please enter %s.", fieldLabel(field))
		}
	}
	return true, ""
}

func fieldLabel(field *Field) string {
	if field.Name != "" {
		return field.Name
	}
	return "a value"
}

// BuildPayload walks the form and merges each field's key/value
// contribution into one flat payload. A field may emit zero, one, or
// multiple keys; later-merged fields overwrite earlier ones on key
// collision (last-write-wins).
func BuildPayload(f *Form) model.Payload {
	payload := make(model.Payload)
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			payload.Merge(fieldPayload(&f.Sections[si].Fields[fi]))
		}
	}
	return payload
}

// fieldPayload returns one field's contribution to the submission payload.
func fieldPayload(field *Field) model.Payload {
	switch field.Type {
	case FieldTypeCategory:
		if id := field.Value(KeyID); id != "" {
			return model.Payload{ParamCategoryID: model.IDValue(id)}
		}
	case FieldTypeDate:
		if v := field.Value(KeyValue); v != "" {
			return model.Payload{ParamDate: model.StringValue(v)}
		}
	case FieldTypeCurrencyAndAmount:
		p := make(model.Payload, 2)
		if id := field.Value(KeyID); id != "" {
			p[ParamCurrencyID] = model.IDValue(id)
		}
		if amount, err := strconv.ParseFloat(field.Value(KeyAmount), 64); err == nil {
			p[ParamAmount] = model.NumberValue(amount)
		}
		if len(p) > 0 {
			return p
		}
	case FieldTypeDropdown:
		if id := field.Value(KeyID); id != "" {
			return model.Payload{field.JSONParameter: model.IDValue(id)}
		}
	case FieldTypeImageSelection:
		// Attachments are uploaded separately; no payload keys.
	default:
		if v := field.Value(KeyValue); v != "" && field.JSONParameter != "" {
			return model.Payload{field.JSONParameter: model.StringValue(v)}
		}
	}
	return nil
}

// ValueEntry is one user-entered value posted back by the client, keyed the
// same way cells are: by JSON parameter, or by field type for the composite
// currency+amount field.
type ValueEntry struct {
	JSONParameter string            `json:"jsonParameter"`
	FieldType     FieldType         `json:"fieldType"`
	Values        map[string]string `json:"values"`
}

// ApplyValues copies user-entered values onto the matching form fields.
// Entries that match no field are ignored.
func ApplyValues(f *Form, entries []ValueEntry) {
	for _, entry := range entries {
		applyEntry(f, entry)
	}
}

func applyEntry(f *Form, entry ValueEntry) {
	for si := range f.Sections {
		for fi := range f.Sections[si].Fields {
			field := &f.Sections[si].Fields[fi]
			if !matches(field, entry) {
				continue
			}
			for k, v := range entry.Values {
				if k == KeyID || k == KeyValue || k == KeyAmount {
					field.SetValue(k, v)
				}
			}
			return
		}
	}
}

func matches(field *Field, entry ValueEntry) bool {
	if field.Type == FieldTypeCurrencyAndAmount || field.Type == FieldTypeImageSelection {
		return field.Type == entry.FieldType
	}
	return field.JSONParameter != "" && field.JSONParameter == entry.JSONParameter
}
