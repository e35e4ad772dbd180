package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	SandboxBaseURL    = "https://sandbox.asaas.com/api/v3"
	ProductionBaseURL = "https://www.asaas.com/api/v3"
)

// Client is a thin REST wrapper over the Asaas v3 API (customers, payments).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client for the given environment ("sandbox" or
// "production"). An unknown environment falls back to sandbox.
func NewClient(apiKey, environment string) *Client {
	base := SandboxBaseURL
	if environment == "production" {
		base = ProductionBaseURL
	}
	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	CpfCnpj  string `json:"cpfCnpj"`
	Phone    string `json:"phone,omitempty"`
	Deleted  bool   `json:"deleted,omitempty"`
}

type CustomerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"addressNumber,omitempty"`
	Complement    string `json:"complement,omitempty"`
	Province      string `json:"province,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
}

type CreditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	Ccv         string `json:"ccv"`
}

type CreditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
}

type PaymentRequest struct {
	Customer             string                `json:"customer"`
	BillingType          string                `json:"billingType"` // CREDIT_CARD | PIX | BOLETO
	Value                float64               `json:"value"`
	DueDate              string                `json:"dueDate"` // YYYY-MM-DD
	Description          string                `json:"description,omitempty"`
	ExternalReference    string                `json:"externalReference,omitempty"`
	InstallmentCount     int                   `json:"installmentCount,omitempty"`
	CreditCard           *CreditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *CreditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

type Payment struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	Status            string  `json:"status"` // PENDING, CONFIRMED, RECEIVED, RECEIVED_IN_CASH, OVERDUE, REFUNDED, ...
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
	InvoiceURL        string  `json:"invoiceUrl"`
	BankSlipURL       string  `json:"bankSlipUrl"`
}

type listResponse[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"totalCount"`
	HasMore    bool `json:"hasMore"`
}

type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil && len(ae.Errors) > 0 {
			return fmt.Errorf("asaas: %s %s: %s (%s)", method, path, ae.Errors[0].Description, ae.Errors[0].Code)
		}
		log.Printf("[ASAAS] %s %s failed status=%d body=%s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("asaas: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

// CreateCustomer registers a new customer at the gateway.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCustomerByEmail returns the first customer matching the email, or nil.
func (c *Client) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var out listResponse[Customer]
	path := "/customers?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}

// CreatePayment creates a charge (credit card, PIX or boleto).
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
