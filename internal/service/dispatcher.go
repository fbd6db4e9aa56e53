// Package service runs the dispatch-notification pipeline: fetch deliveries,
// resolve customer phones, send one-time notifications, and record each order
// in the ledger.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rexe-automation/dispatch-notifier/internal/contact"
	"github.com/rexe-automation/dispatch-notifier/internal/domain"
	"github.com/rexe-automation/dispatch-notifier/internal/observability"
	"github.com/rexe-automation/dispatch-notifier/internal/ratelimit"
	"github.com/rexe-automation/dispatch-notifier/internal/repository"
	"go.uber.org/zap"
)

const (
	dispatchDateLayout = "2006-01-02"

	channelEmail = "email"
	channelSMS   = "sms"

	skipReasonInvalid         = "invalid_order"
	skipReasonAlreadyNotified = "already_notified"
)

// DeliverySource provides the dispatch records and the customer directory.
type DeliverySource interface {
	FetchDeliveries(ctx context.Context) ([]domain.Delivery, error)
	FetchCustomers(ctx context.Context) ([]domain.CustomerContact, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// Dispatcher orchestrates one notification run. Runs are strictly sequential:
// a run that starts while another is still in flight is dropped, not queued.
type Dispatcher struct {
	source       DeliverySource
	ledger       repository.Ledger
	email        EmailSender
	sms          SMSSender
	limiter      ratelimit.RateLimiter
	metrics      *observability.Metrics
	logger       *zap.Logger
	contactPhone string
	now          func() time.Time

	runMu sync.Mutex
}

func NewDispatcher(
	source DeliverySource,
	ledger repository.Ledger,
	email EmailSender,
	sms SMSSender,
	limiter ratelimit.RateLimiter,
	metrics *observability.Metrics,
	logger *zap.Logger,
	contactPhone string,
) (*Dispatcher, error) {
	if source == nil {
		return nil, fmt.Errorf("delivery source is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email sender is required")
	}
	if sms == nil {
		return nil, fmt.Errorf("sms sender is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		source:       source,
		ledger:       ledger,
		email:        email,
		sms:          sms,
		limiter:      limiter,
		metrics:      metrics,
		logger:       logger,
		contactPhone: strings.TrimSpace(contactPhone),
		now:          time.Now,
	}, nil
}

// Run executes one full pipeline pass. Per-order failures are logged and do
// not abort the batch; only the run-level fetches can end a run early.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.runMu.TryLock() {
		d.logger.Warn("previous run still in progress, skipping this run")
		return nil
	}
	defer d.runMu.Unlock()

	start := d.now()
	ctx = observability.WithRunID(ctx, uuid.NewString())
	log := observability.WithContextLogger(d.logger, ctx)

	d.metrics.IncRun()
	defer func() {
		d.metrics.ObserveRunDuration(d.now().Sub(start))
	}()

	customers, err := d.source.FetchCustomers(ctx)
	if err != nil {
		log.Error("failed to fetch customer directory", zap.Error(err))
		return nil
	}
	if len(customers) == 0 {
		log.Warn("customer directory is empty, nothing to cross-reference")
		return nil
	}

	deliveries, err := d.source.FetchDeliveries(ctx)
	if err != nil {
		log.Error("failed to fetch deliveries", zap.Error(err))
		return nil
	}
	if len(deliveries) == 0 {
		log.Info("no deliveries to process")
		return nil
	}

	log.Info("run started",
		zap.Int("deliveries", len(deliveries)),
		zap.Int("customers", len(customers)),
	)

	processed := 0
	for i := range deliveries {
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", zap.Error(err))
			return err
		}

		if err := d.processDelivery(ctx, log, &deliveries[i], customers); err != nil {
			log.Error("failed to process delivery",
				zap.String("orderNumber", deliveries[i].OrderNumber),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	log.Info("run finished",
		zap.Int("deliveries", len(deliveries)),
		zap.Int("processed", processed),
		zap.Duration("duration", d.now().Sub(start)),
	)
	return nil
}

// processDelivery handles a single order end to end. The ledger row is written
// exactly once per order number regardless of send outcome; failed or skipped
// channels are captured in the row's notes instead of blocking it.
func (d *Dispatcher) processDelivery(
	ctx context.Context,
	log *zap.Logger,
	delivery *domain.Delivery,
	customers []domain.CustomerContact,
) error {
	if err := delivery.Validate(); err != nil {
		d.metrics.IncOrderSkipped(skipReasonInvalid)
		return err
	}

	exists, err := d.ledger.Exists(ctx, delivery.OrderNumber)
	if err != nil {
		return fmt.Errorf("ledger lookup: %w", err)
	}
	if exists {
		d.metrics.IncOrderSkipped(skipReasonAlreadyNotified)
		log.Debug("order already notified, skipping",
			zap.String("orderNumber", delivery.OrderNumber),
		)
		return nil
	}

	var notes []string

	dispatchDate := parseDispatchDate(delivery.PlanSendDate)
	if dispatchDate == nil && strings.TrimSpace(delivery.PlanSendDate) != "" {
		log.Warn("unparseable plan send date",
			zap.String("orderNumber", delivery.OrderNumber),
			zap.String("planSendDate", delivery.PlanSendDate),
		)
		notes = append(notes, fmt.Sprintf("unparseable dispatch date %q", delivery.PlanSendDate))
	}

	// Three distinct outcomes feed the dashboard notes: no address on the
	// delivery (noted by the email path), no directory match, and a matched
	// customer without a phone on file.
	var phone string
	if strings.TrimSpace(delivery.Email) != "" {
		if customer, found := contact.Lookup(delivery.Email, customers); !found {
			notes = append(notes, "no customer match for email")
		} else if phone = customer.BestPhone(); phone == "" {
			notes = append(notes, "matched customer has no phone number")
		}
	}

	subject := renderSubject(delivery.OrderNumber)
	body := renderBody(delivery.OrderNumber, d.contactPhone)

	emailSent := d.sendEmail(ctx, log, delivery, subject, body, &notes)
	smsSent := d.sendSMS(ctx, log, delivery, phone, body, &notes)

	record := d.buildRecord(delivery, dispatchDate, phone, emailSent, smsSent, notes)
	if err := d.ledger.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrAlreadyNotified) {
			// Lost an insert race against a concurrent writer; the order is
			// recorded either way.
			d.metrics.IncOrderSkipped(skipReasonAlreadyNotified)
			log.Warn("order recorded by a concurrent run",
				zap.String("orderNumber", delivery.OrderNumber),
			)
			return nil
		}
		return fmt.Errorf("ledger create: %w", err)
	}

	d.metrics.IncOrderProcessed()
	log.Info("order notified",
		zap.String("orderNumber", delivery.OrderNumber),
		zap.Bool("emailSent", emailSent),
		zap.Bool("smsSent", smsSent),
	)
	return nil
}

func (d *Dispatcher) sendEmail(
	ctx context.Context,
	log *zap.Logger,
	delivery *domain.Delivery,
	subject, body string,
	notes *[]string,
) bool {
	if strings.TrimSpace(delivery.Email) == "" {
		*notes = append(*notes, "no email address on delivery")
		return false
	}

	start := d.now()
	err := d.email.Send(ctx, delivery.Email, subject, body)
	d.metrics.ObserveNotificationSendDuration(channelEmail, d.now().Sub(start))
	if err != nil {
		d.metrics.IncNotificationFailed(channelEmail, "send_error")
		log.Error("email send failed",
			zap.String("orderNumber", delivery.OrderNumber),
			zap.Error(err),
		)
		*notes = append(*notes, fmt.Sprintf("email send failed: %v", err))
		return false
	}

	d.metrics.IncNotificationSent(channelEmail)
	return true
}

func (d *Dispatcher) sendSMS(
	ctx context.Context,
	log *zap.Logger,
	delivery *domain.Delivery,
	phone, message string,
	notes *[]string,
) bool {
	if phone == "" {
		return false
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, channelSMS); err != nil {
			d.metrics.IncNotificationFailed(channelSMS, "rate_limit")
			log.Error("sms rate limit wait failed",
				zap.String("orderNumber", delivery.OrderNumber),
				zap.Error(err),
			)
			*notes = append(*notes, fmt.Sprintf("sms rate limit wait failed: %v", err))
			return false
		}
	}

	start := d.now()
	err := d.sms.Send(ctx, phone, message)
	d.metrics.ObserveNotificationSendDuration(channelSMS, d.now().Sub(start))
	if err != nil {
		d.metrics.IncNotificationFailed(channelSMS, "send_error")
		log.Error("sms send failed",
			zap.String("orderNumber", delivery.OrderNumber),
			zap.Error(err),
		)
		*notes = append(*notes, fmt.Sprintf("sms send failed: %v", err))
		return false
	}

	d.metrics.IncNotificationSent(channelSMS)
	return true
}

func (d *Dispatcher) buildRecord(
	delivery *domain.Delivery,
	dispatchDate *time.Time,
	phone string,
	emailSent, smsSent bool,
	notes []string,
) *domain.NotificationRecord {
	item := delivery.FirstItem()
	quantity, err := strconv.Atoi(strings.TrimSpace(item.Ordered))
	if err != nil {
		quantity = 0
	}

	return &domain.NotificationRecord{
		ID:              uuid.NewString(),
		OrderNumber:     delivery.OrderNumber,
		CustomerName:    delivery.CustomerName,
		DispatchDate:    dispatchDate,
		PlanSendDate:    delivery.PlanSendDate,
		ShipDate:        delivery.ShipDate,
		Status:          delivery.Status,
		Location:        delivery.Location,
		RegDate:         delivery.RegDate,
		RegTime:         delivery.RegTime,
		ServiceType:     delivery.ServiceType,
		Spec:            item.Spec,
		ProductCode:     item.ProductCode,
		QuantityOrdered: quantity,
		Unit:            item.Unit,
		Price:           item.Price,
		BasePrice:       item.BasePrice,
		CostAccount:     delivery.CostAccount,
		Email:           delivery.Email,
		PhoneNumber:     phone,
		EmailSent:       emailSent,
		SMSSent:         smsSent,
		Notes:           strings.Join(notes, "; "),
		CreatedAt:       d.now().UTC(),
	}
}

func parseDispatchDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	parsed, err := time.Parse(dispatchDateLayout, trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func renderSubject(orderNumber string) string {
	return fmt.Sprintf("Your Order #%s Has Been Dispatched", orderNumber)
}

func renderBody(orderNumber, contactPhone string) string {
	body := fmt.Sprintf(
		"Your order #%s has been dispatched and will arrive today. We will notify you right away if there are any delays.",
		orderNumber,
	)
	if contactPhone != "" {
		body += fmt.Sprintf(" For any questions please call us on %s.", contactPhone)
	}
	return body
}
