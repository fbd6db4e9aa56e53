package repository

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rexe-automation/dispatch-notifier/internal/domain"
)

// Raw ERP fields must land in text columns: some deliveries carry rows with
// no price at all, and binding "" against a numeric column fails the INSERT
// after the notifications already went out.
func TestNotifiedDeliveryModelRawFieldsAreText(t *testing.T) {
	t.Parallel()

	modelType := reflect.TypeOf(NotifiedDeliveryModel{})
	for _, name := range []string{"Price", "BasePrice", "PlanSendDate", "ShipDate", "RegDate", "RegTime"} {
		field, ok := modelType.FieldByName(name)
		if !ok {
			t.Fatalf("model has no field %s", name)
		}
		tag := field.Tag.Get("gorm")
		if strings.Contains(tag, "numeric") || strings.Contains(tag, "date") || strings.Contains(tag, "time") {
			t.Errorf("%s gorm tag = %q, raw ERP values need a text column", name, tag)
		}
		if !strings.Contains(tag, "varchar") {
			t.Errorf("%s gorm tag = %q, want a varchar column", name, tag)
		}
	}
}

func TestRecordModelMappingPreservesEmptyPriceFields(t *testing.T) {
	t.Parallel()

	record := &domain.NotificationRecord{
		ID:              "b7f9b0a2-7f3e-4f1a-9a70-0f6f2f1c2d3e",
		OrderNumber:     "240113",
		CustomerName:    "Acme Hardware",
		Spec:            "Tile",
		QuantityOrdered: 5,
		EmailSent:       true,
		CreatedAt:       time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}

	model := recordModelFromDomain(record)
	if model.Price != "" || model.BasePrice != "" {
		t.Fatalf("model prices = (%q, %q), want empty strings preserved", model.Price, model.BasePrice)
	}
	if model.QuantityOrdered != 5 {
		t.Fatalf("QuantityOrdered = %d, want 5", model.QuantityOrdered)
	}

	back := recordModelToDomain(model)
	if back.Price != "" || back.BasePrice != "" {
		t.Fatalf("domain prices = (%q, %q), want empty strings preserved", back.Price, back.BasePrice)
	}
	if back.Spec != "Tile" || back.QuantityOrdered != 5 {
		t.Fatalf("record = %+v, want Tile/5 intact", back)
	}
}
