package model

import (
	"fmt"
	"time"
)

// Display formats shared by the detail managers and the field binder.
const (
	displayDateLayout = "02 Jan 2006"
	auditDateLayout   = "02 Jan 2006 3:04 PM"
)

// DisplayDate formats a date for screen headers and date fields. A zero
// time yields an empty string.
func DisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout)
}

// AuditDate formats a timestamp for audit-history detail lines.
func AuditDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(auditDateLayout)
}

// FormatAmount renders a currency code and amount the way detail headers
// show them, e.g. "SGD 120.50".
func FormatAmount(currencyCode string, amount float64) string {
	if currencyCode == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currencyCode, amount)
}
