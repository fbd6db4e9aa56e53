package domain

import "strings"

// CustomerContact is one entry of the customer directory fetched per run.
type CustomerContact struct {
	Name     string
	Email    string
	Phone    string
	Mobile   string
	AltPhone string
}

// BestPhone returns the first non-empty number from the fallback chain
// primary phone, mobile, alternate. Empty string means no phone on file.
func (c CustomerContact) BestPhone() string {
	for _, candidate := range []string{c.Phone, c.Mobile, c.AltPhone} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
