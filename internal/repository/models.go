package repository

import (
	"time"

	"github.com/rexe-automation/dispatch-notifier/internal/domain"
)

// NotifiedDeliveryModel is the persistence model for the notified_deliveries
// ledger table. The order number carries the unique index that enforces
// at-most-once notification. Raw ERP values (dates, quantities on rows,
// prices) are stored as text: the ERP omits them on some rows and a typed
// column would reject the empty string and lose the row.
type NotifiedDeliveryModel struct {
	ID              string     `gorm:"type:uuid;primaryKey"`
	OrderNumber     string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_notified_deliveries_order_number"`
	CustomerName    string     `gorm:"type:varchar(100)"`
	DispatchDate    *time.Time `gorm:"type:date"`
	PlanSendDate    string     `gorm:"type:varchar(20)"`
	ShipDate        string     `gorm:"type:varchar(20)"`
	Status          string     `gorm:"type:varchar(20)"`
	Location        string     `gorm:"type:varchar(100)"`
	RegDate         string     `gorm:"type:varchar(20)"`
	RegTime         string     `gorm:"type:varchar(20)"`
	ServiceType     string     `gorm:"type:varchar(100)"`
	Spec            string     `gorm:"type:varchar(255)"`
	ProductCode     string     `gorm:"type:varchar(50)"`
	QuantityOrdered int        `gorm:"not null;default:0"`
	Unit            string     `gorm:"type:varchar(20)"`
	Price           string     `gorm:"type:varchar(20)"`
	BasePrice       string     `gorm:"type:varchar(20)"`
	CostAccount     string     `gorm:"type:varchar(20)"`
	Email           string     `gorm:"type:varchar(255)"`
	PhoneNumber     string     `gorm:"type:varchar(20)"`
	EmailSent       bool       `gorm:"not null;default:false"`
	SMSSent         bool       `gorm:"column:sms_sent;not null;default:false"`
	Notes           string     `gorm:"type:text"`
	CreatedAt       time.Time
}

func (NotifiedDeliveryModel) TableName() string {
	return "notified_deliveries"
}

func recordModelFromDomain(r *domain.NotificationRecord) *NotifiedDeliveryModel {
	if r == nil {
		return nil
	}

	return &NotifiedDeliveryModel{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		CustomerName:    r.CustomerName,
		DispatchDate:    r.DispatchDate,
		PlanSendDate:    r.PlanSendDate,
		ShipDate:        r.ShipDate,
		Status:          r.Status,
		Location:        r.Location,
		RegDate:         r.RegDate,
		RegTime:         r.RegTime,
		ServiceType:     r.ServiceType,
		Spec:            r.Spec,
		ProductCode:     r.ProductCode,
		QuantityOrdered: r.QuantityOrdered,
		Unit:            r.Unit,
		Price:           r.Price,
		BasePrice:       r.BasePrice,
		CostAccount:     r.CostAccount,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		EmailSent:       r.EmailSent,
		SMSSent:         r.SMSSent,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

func recordModelToDomain(m *NotifiedDeliveryModel) *domain.NotificationRecord {
	if m == nil {
		return nil
	}

	return &domain.NotificationRecord{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		CustomerName:    m.CustomerName,
		DispatchDate:    m.DispatchDate,
		PlanSendDate:    m.PlanSendDate,
		ShipDate:        m.ShipDate,
		Status:          m.Status,
		Location:        m.Location,
		RegDate:         m.RegDate,
		RegTime:         m.RegTime,
		ServiceType:     m.ServiceType,
		Spec:            m.Spec,
		ProductCode:     m.ProductCode,
		QuantityOrdered: m.QuantityOrdered,
		Unit:            m.Unit,
		Price:           m.Price,
		BasePrice:       m.BasePrice,
		CostAccount:     m.CostAccount,
		Email:           m.Email,
		PhoneNumber:     m.PhoneNumber,
		EmailSent:       m.EmailSent,
		SMSSent:         m.SMSSent,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}
