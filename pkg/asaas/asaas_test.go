package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatePaymentSendsAuthAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		require.Equal(t, "key-123", r.Header.Get("access_token"))

		var req PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "cus_1", req.Customer)
		require.Equal(t, "PIX", req.BillingType)
		require.Equal(t, 250.0, req.Value)

		json.NewEncoder(w).Encode(Payment{
			ID:          "pay_1",
			Customer:    req.Customer,
			BillingType: req.BillingType,
			Value:       req.Value,
			Status:      "PENDING",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key-123", srv.URL)
	p, err := c.CreatePayment(context.Background(), PaymentRequest{
		Customer:    "cus_1",
		BillingType: "PIX",
		Value:       250,
		DueDate:     "2026-09-01",
	})
	require.NoError(t, err)
	require.Equal(t, "pay_1", p.ID)
	require.Equal(t, "PENDING", p.Status)
}

func TestGetCustomerByEmailEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customers", r.URL.Path)
		require.Equal(t, "maria@test.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []Customer{}, "totalCount": 0})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	got, err := c.GetCustomerByEmail(context.Background(), "maria@test.com")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestGetCustomerByEmailFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":       []Customer{{ID: "cus_9", Email: "maria@test.com"}},
			"totalCount": 1,
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	got, err := c.GetCustomerByEmail(context.Background(), "maria@test.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "cus_9", got.ID)
}

func TestAPIErrorIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"invalid_value","description":"O valor informado é inválido"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	_, err := c.CreatePayment(context.Background(), PaymentRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid_value")
	require.Contains(t, err.Error(), "O valor informado é inválido")
}
