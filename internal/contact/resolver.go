// Package contact resolves delivery contact details from the customer
// directory.
package contact

import (
	"strings"

	"github.com/rexe-automation/dispatch-notifier/internal/domain"
)

// Lookup finds the directory entry for an email address by scanning with
// case-insensitive, whitespace-trimmed equality. The first matching customer
// wins; whether that customer has a phone on file is the caller's concern.
// The directory is small (hundreds of entries per run), so a linear scan is
// enough.
func Lookup(email string, directory []domain.CustomerContact) (domain.CustomerContact, bool) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return domain.CustomerContact{}, false
	}

	for _, customer := range directory {
		if normalizeEmail(customer.Email) == normalized {
			return customer, true
		}
	}

	return domain.CustomerContact{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
