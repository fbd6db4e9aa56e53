package domain

import (
	"errors"
	"testing"
)

func TestDeliveryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		orderNumber string
		wantErr     bool
	}{
		{name: "valid order number", orderNumber: "1001"},
		{name: "empty order number", orderNumber: "", wantErr: true},
		{name: "whitespace order number", orderNumber: "   ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := Delivery{OrderNumber: tt.orderNumber}
			err := d.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestDeliveryFirstItem(t *testing.T) {
	t.Parallel()

	empty := Delivery{OrderNumber: "1001"}
	if got := empty.FirstItem(); got != (LineItem{}) {
		t.Fatalf("FirstItem() = %+v, want zero item", got)
	}

	d := Delivery{
		OrderNumber: "1001",
		Items: []LineItem{
			{Spec: "Tile", Ordered: "5"},
			{Spec: "Grout", Ordered: "2"},
		},
	}
	if got := d.FirstItem(); got.Spec != "Tile" || got.Ordered != "5" {
		t.Fatalf("FirstItem() = %+v, want first row", got)
	}
}

func TestCustomerContactBestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		contact CustomerContact
		want    string
	}{
		{
			name:    "primary phone wins",
			contact: CustomerContact{Phone: "0722000111", Mobile: "0733000222", AltPhone: "0744000333"},
			want:    "0722000111",
		},
		{
			name:    "mobile when primary empty",
			contact: CustomerContact{Phone: "  ", Mobile: "0733000222", AltPhone: "0744000333"},
			want:    "0733000222",
		},
		{
			name:    "alternate as last resort",
			contact: CustomerContact{AltPhone: "0744000333"},
			want:    "0744000333",
		},
		{
			name:    "no phone on file",
			contact: CustomerContact{Email: "a@b.com"},
			want:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.contact.BestPhone(); got != tt.want {
				t.Fatalf("BestPhone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotificationRecordValidate(t *testing.T) {
	t.Parallel()

	r := NotificationRecord{OrderNumber: "1001"}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	r.OrderNumber = ""
	if err := r.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}
