// Package handler exposes the dashboard API over the notification ledger.
package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rexe-automation/dispatch-notifier/internal/domain"
	"github.com/rexe-automation/dispatch-notifier/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	dashboardDateLayout = "2006-01-02"
)

type DashboardHandler struct {
	ledger repository.Ledger
}

func NewDashboardHandler(ledger repository.Ledger) (*DashboardHandler, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	return &DashboardHandler{ledger: ledger}, nil
}

func RegisterDashboardRoutes(router fiber.Router, ledger repository.Ledger) error {
	h, err := NewDashboardHandler(ledger)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/deliveries", h.ListDeliveries)

	return nil
}

type deliveryResponse struct {
	OrderNumber     string    `json:"orderNumber"`
	CustomerName    string    `json:"customerName"`
	DispatchDate    *string   `json:"dispatchDate"`
	Status          string    `json:"status"`
	ProductSpec     string    `json:"productSpec"`
	QuantityOrdered int       `json:"quantityOrdered"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	EmailSent       bool      `json:"emailSent"`
	SMSSent         bool      `json:"smsSent"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type listDeliveriesResponse struct {
	Data []deliveryResponse `json:"data"`
	Meta listMeta           `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// ListDeliveries serves the notified-order ledger newest first.
func (h *DashboardHandler) ListDeliveries(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return toHTTPError(err)
	}

	records, total, err := h.ledger.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]deliveryResponse, 0, len(records))
	for i := range records {
		data = append(data, toDeliveryResponse(&records[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listDeliveriesResponse{
		Data: data,
		Meta: listMeta{
			Page:     params.Page,
			PageSize: params.PageSize,
			Total:    total,
		},
	})
}

func parseListParams(c *fiber.Ctx) (repository.ListParams, error) {
	params := repository.ListParams{
		Page:     c.QueryInt("page", defaultPage),
		PageSize: c.QueryInt("pageSize", defaultPageSize),
	}

	if params.Page < 1 {
		return repository.ListParams{}, fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		return repository.ListParams{}, fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize)
	}

	return params, nil
}

func toDeliveryResponse(record *domain.NotificationRecord) deliveryResponse {
	var dispatchDate *string
	if record.DispatchDate != nil {
		formatted := record.DispatchDate.Format(dashboardDateLayout)
		dispatchDate = &formatted
	}

	return deliveryResponse{
		OrderNumber:     record.OrderNumber,
		CustomerName:    record.CustomerName,
		DispatchDate:    dispatchDate,
		Status:          record.Status,
		ProductSpec:     record.Spec,
		QuantityOrdered: record.QuantityOrdered,
		Email:           record.Email,
		PhoneNumber:     record.PhoneNumber,
		EmailSent:       record.EmailSent,
		SMSSent:         record.SMSSent,
		Notes:           record.Notes,
		CreatedAt:       record.CreatedAt,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
