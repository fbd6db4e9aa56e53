// Package erp reads delivery and customer data from the order-management API.
package erp

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rexe-automation/dispatch-notifier/internal/domain"
)

const defaultERPTimeout = 30 * time.Second

// Client fetches dispatch records and the customer directory over the ERP's
// basic-auth XML endpoints. Both fetches are read-only; the client holds no
// state beyond its HTTP client.
type Client struct {
	http        *resty.Client
	orderURL    string
	customerURL string
}

func NewClient(orderURL, customerURL, username, password string) (*Client, error) {
	client := resty.New()
	client.SetTimeout(defaultERPTimeout)
	client.SetRetryCount(0)
	client.SetBasicAuth(username, password)

	return NewClientWithHTTP(orderURL, customerURL, client)
}

func NewClientWithHTTP(orderURL, customerURL string, client *resty.Client) (*Client, error) {
	trimmedOrderURL := strings.TrimSpace(orderURL)
	trimmedCustomerURL := strings.TrimSpace(customerURL)
	if trimmedOrderURL == "" {
		return nil, fmt.Errorf("order API url is required")
	}
	if trimmedCustomerURL == "" {
		return nil, fmt.Errorf("customer API url is required")
	}
	if _, err := url.ParseRequestURI(trimmedOrderURL); err != nil {
		return nil, fmt.Errorf("invalid order API url: %w", err)
	}
	if _, err := url.ParseRequestURI(trimmedCustomerURL); err != nil {
		return nil, fmt.Errorf("invalid customer API url: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultERPTimeout)
	}
	client.SetRetryCount(0)

	return &Client{
		http:        client,
		orderURL:    trimmedOrderURL,
		customerURL: trimmedCustomerURL,
	}, nil
}

// deliveryDocument mirrors the ERP response <data><SHVc>...</SHVc></data>.
// Repeated-element decoding handles the single-entry case: an XML object that
// appears once simply yields a one-element slice.
type deliveryDocument struct {
	XMLName xml.Name        `xml:"data"`
	Entries []deliveryEntry `xml:"SHVc"`
}

type deliveryEntry struct {
	SerNr        string  `xml:"SerNr"`
	Addr0        string  `xml:"Addr0"`
	Addr1        string  `xml:"Addr1"`
	PlanSendDate string  `xml:"PlanSendDate"`
	ShipDate     string  `xml:"ShipDate"`
	Status       string  `xml:"Status"`
	Location     string  `xml:"Location"`
	RegDate      string  `xml:"RegDate"`
	RegTime      string  `xml:"RegTime"`
	ServiceType  string  `xml:"ServiceType"`
	CostAcc      string  `xml:"CostAcc"`
	Rows         rowList `xml:"rows"`
}

type rowList struct {
	Rows []rowEntry `xml:"row"`
}

type rowEntry struct {
	Spec      string `xml:"Spec"`
	ArtCode   string `xml:"ArtCode"`
	Ordered   string `xml:"Ordered"`
	UnitCode  string `xml:"UnitCode"`
	Price     string `xml:"Price"`
	BasePrice string `xml:"BasePrice"`
}

type customerDocument struct {
	XMLName xml.Name        `xml:"data"`
	Entries []customerEntry `xml:"CUVc"`
}

type customerEntry struct {
	Name     string `xml:"Name"`
	Email    string `xml:"eMail"`
	Phone    string `xml:"Phone"`
	Mobile   string `xml:"Mobile"`
	AltPhone string `xml:"AltPhone"`
}

// FetchDeliveries retrieves the current set of dispatch records. A response
// without delivery entries yields an empty slice and no error; transport and
// parse failures are returned for the caller to degrade to "no data".
func (c *Client) FetchDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	body, err := c.get(ctx, c.orderURL)
	if err != nil {
		return nil, fmt.Errorf("delivery fetch: %w", err)
	}

	var doc deliveryDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("delivery fetch: failed to parse response: %w", err)
	}

	deliveries := make([]domain.Delivery, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		deliveries = append(deliveries, entryToDelivery(entry))
	}

	return deliveries, nil
}

// FetchCustomers retrieves the customer directory used for phone resolution.
func (c *Client) FetchCustomers(ctx context.Context) ([]domain.CustomerContact, error) {
	body, err := c.get(ctx, c.customerURL)
	if err != nil {
		return nil, fmt.Errorf("customer fetch: %w", err)
	}

	var doc customerDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("customer fetch: failed to parse response: %w", err)
	}

	customers := make([]domain.CustomerContact, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		customers = append(customers, domain.CustomerContact{
			Name:     entry.Name,
			Email:    entry.Email,
			Phone:    entry.Phone,
			Mobile:   entry.Mobile,
			AltPhone: entry.AltPhone,
		})
	}

	return customers, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("client is not initialized")
	}

	response, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !response.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d: %s", response.StatusCode(), strings.TrimSpace(response.String()))
	}

	return response.Body(), nil
}

func entryToDelivery(entry deliveryEntry) domain.Delivery {
	items := make([]domain.LineItem, 0, len(entry.Rows.Rows))
	for _, row := range entry.Rows.Rows {
		items = append(items, domain.LineItem{
			Spec:        row.Spec,
			ProductCode: row.ArtCode,
			Ordered:     row.Ordered,
			Unit:        row.UnitCode,
			Price:       row.Price,
			BasePrice:   row.BasePrice,
		})
	}

	return domain.Delivery{
		OrderNumber:  strings.TrimSpace(entry.SerNr),
		CustomerName: entry.Addr0,
		Email:        strings.TrimSpace(entry.Addr1),
		PlanSendDate: entry.PlanSendDate,
		ShipDate:     entry.ShipDate,
		Status:       entry.Status,
		Location:     entry.Location,
		RegDate:      entry.RegDate,
		RegTime:      entry.RegTime,
		ServiceType:  entry.ServiceType,
		CostAccount:  entry.CostAcc,
		Items:        items,
	}
}
