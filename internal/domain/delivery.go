package domain

import (
	"fmt"
	"strings"
)

// Delivery is a dispatch record fetched from the order API. It is transient:
// a fresh set is pulled on every run and nothing here is persisted directly.
// Date and numeric fields stay as the raw strings the ERP returns; parsing
// happens at the point of use so one malformed field cannot reject the record.
type Delivery struct {
	OrderNumber  string
	CustomerName string
	Email        string
	PlanSendDate string
	ShipDate     string
	Status       string
	Location     string
	RegDate      string
	RegTime      string
	ServiceType  string
	CostAccount  string
	Items        []LineItem
}

// LineItem is one order row. Only the first row feeds the ledger.
type LineItem struct {
	Spec        string
	ProductCode string
	Ordered     string
	Unit        string
	Price       string
	BasePrice   string
}

// Validate rejects deliveries that cannot enter the pipeline. The order
// number is the sole deduplication key, so a delivery without one is
// unprocessable rather than defaulted.
func (d *Delivery) Validate() error {
	if strings.TrimSpace(d.OrderNumber) == "" {
		return fmt.Errorf("%w: delivery order number is required", ErrValidation)
	}
	return nil
}

// FirstItem returns the first order row, or a zero item when the delivery
// carries none.
func (d *Delivery) FirstItem() LineItem {
	if len(d.Items) == 0 {
		return LineItem{}
	}
	return d.Items[0]
}
