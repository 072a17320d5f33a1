// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single financial transaction record.
//
// Amount uses decimal.NullDecimal: a non-numeric input becomes the
// unparsable sentinel (Valid=false) and is carried through summaries and
// export instead of failing ingestion.
type Transaction struct {
	Date        string              `csv:"Date"`        // Normalized to YYYY-MM-DD
	Description string              `csv:"Description"` // Free-text description used for categorization
	Amount      decimal.NullDecimal `csv:"-"`           // Signed amount; Valid=false when unparsable
	Category    string              `csv:"Category"`    // Assigned category label
}

// NewTransaction creates a transaction in its freshly-ingested state.
func NewTransaction(date, description string, amount decimal.NullDecimal) Transaction {
	return Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    CategoryUncategorized,
	}
}

// HasAmount reports whether the amount parsed to a usable number.
func (t Transaction) HasAmount() bool {
	return t.Amount.Valid
}

// AmountString renders the amount for display and export.
// The unparsable sentinel renders as the empty string.
func (t Transaction) AmountString() string {
	if !t.Amount.Valid {
		return ""
	}
	return t.Amount.Decimal.String()
}

// ParseAmount parses a string amount into the nullable decimal used on
// Transaction. Currency symbols, spaces, thousands separators and a comma
// decimal separator are tolerated. Anything that still fails to parse yields
// the unparsable sentinel rather than an error.
func ParseAmount(amountStr string) decimal.NullDecimal {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.NullDecimal{}
	}

	// Strip common currency markers and thousand separators
	for _, marker := range []string{"CHF", "EUR", "USD", "$", "€", "'", " "} {
		amount = strings.ReplaceAll(amount, marker, "")
	}

	// A comma is a decimal separator only when no dot is present
	if !strings.Contains(amount, ".") {
		amount = strings.ReplaceAll(amount, ",", ".")
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: dec, Valid: true}
}

// dateLayouts are the input date formats accepted at ingestion, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDate parses a date string in any accepted layout and normalizes it to
// YYYY-MM-DD. Unlike amounts, an unparsable date is an error: ingestion
// rejects the whole file when dates cannot be interpreted.
func ParseDate(dateStr string) (string, error) {
	trimmed := strings.TrimSpace(dateStr)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t.Format("2006-01-02"), nil
		}
		lastErr = err
	}
	return "", lastErr
}
