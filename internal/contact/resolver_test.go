package contact

import (
	"testing"

	"github.com/rexe-automation/dispatch-notifier/internal/domain"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	directory := []domain.CustomerContact{
		{Name: "Alpha", Email: "a@b.com", Phone: "0722000111", Mobile: "0733000222"},
		{Name: "Mobile Only", Email: "mobile-only@b.com", Mobile: "0733000999"},
		{Name: "Alt Only", Email: "alt-only@b.com", AltPhone: "0744000333"},
		{Name: "No Phone", Email: "no-phone@b.com"},
		{Name: "Dup First", Email: "duplicate@b.com", Phone: "first-match"},
		{Name: "Dup Second", Email: "duplicate@b.com", Phone: "second-match"},
	}

	tests := []struct {
		name      string
		email     string
		wantFound bool
		wantName  string
		wantPhone string
	}{
		{name: "exact match primary phone", email: "a@b.com", wantFound: true, wantName: "Alpha", wantPhone: "0722000111"},
		{name: "case insensitive", email: "A@B.com", wantFound: true, wantName: "Alpha", wantPhone: "0722000111"},
		{name: "whitespace trimmed", email: "  a@b.com ", wantFound: true, wantName: "Alpha", wantPhone: "0722000111"},
		{name: "mobile fallback", email: "mobile-only@b.com", wantFound: true, wantName: "Mobile Only", wantPhone: "0733000999"},
		{name: "alternate fallback", email: "alt-only@b.com", wantFound: true, wantName: "Alt Only", wantPhone: "0744000333"},
		{name: "match without phone", email: "no-phone@b.com", wantFound: true, wantName: "No Phone", wantPhone: ""},
		{name: "first match wins", email: "duplicate@b.com", wantFound: true, wantName: "Dup First", wantPhone: "first-match"},
		{name: "no match", email: "stranger@b.com", wantFound: false},
		{name: "empty email", email: "", wantFound: false},
		{name: "whitespace email", email: "   ", wantFound: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			customer, found := Lookup(tt.email, directory)
			if found != tt.wantFound {
				t.Fatalf("Lookup() found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				if customer != (domain.CustomerContact{}) {
					t.Fatalf("Lookup() customer = %+v, want zero value on a miss", customer)
				}
				return
			}
			if customer.Name != tt.wantName {
				t.Fatalf("Lookup() customer = %q, want %q", customer.Name, tt.wantName)
			}
			if phone := customer.BestPhone(); phone != tt.wantPhone {
				t.Fatalf("BestPhone() = %q, want %q", phone, tt.wantPhone)
			}
		})
	}
}

func TestLookupEmptyDirectory(t *testing.T) {
	t.Parallel()

	if _, found := Lookup("a@b.com", nil); found {
		t.Fatal("Lookup() on an empty directory must miss")
	}
}
