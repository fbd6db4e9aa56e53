package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationRecord is the durable ledger row written once per order number
// after a notification attempt, whatever the outcome. The existence of a row
// is the sole "already notified" signal; rows are never updated or deleted by
// the pipeline.
type NotificationRecord struct {
	ID              string
	OrderNumber     string
	CustomerName    string
	DispatchDate    *time.Time
	PlanSendDate    string
	ShipDate        string
	Status          string
	Location        string
	RegDate         string
	RegTime         string
	ServiceType     string
	Spec            string
	ProductCode     string
	QuantityOrdered int
	Unit            string
	Price           string
	BasePrice       string
	CostAccount     string
	Email           string
	PhoneNumber     string
	EmailSent       bool
	SMSSent         bool
	Notes           string
	CreatedAt       time.Time
}

func (r *NotificationRecord) Validate() error {
	if strings.TrimSpace(r.OrderNumber) == "" {
		return fmt.Errorf("%w: record order number is required", ErrValidation)
	}
	return nil
}
