package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// newTestProcessor stands up a fake Orders API and returns a client bound
// to it.
func newTestProcessor(t *testing.T, orderStatus, captureAmount string) *PayPalClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer"}`)
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"ORDER-1","status":"CREATED","purchase_units":[{"amount":{"currency_code":"USD","value":"220.00"}}],"links":[{"href":"https://example.test/approve","rel":"approve"}]}`)
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":"ORDER-1","status":"%s","purchase_units":[{"amount":{"currency_code":"USD","value":"220.00"},"payments":{"captures":[{"status":"COMPLETED","amount":{"currency_code":"USD","value":"%s"}}]}}]}`, orderStatus, captureAmount)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	os.Setenv("PAYPAL_API_BASE", server.URL)
	os.Setenv("PAYPAL_CLIENT_ID", "test-client")
	os.Setenv("PAYPAL_CLIENT_SECRET", "test-secret")
	return NewPayPalClient()
}

func TestCreateOrder(t *testing.T) {
	client := newTestProcessor(t, "COMPLETED", "220.00")

	order, err := client.CreateOrder(220)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "ORDER-1" {
		t.Errorf("order ID = %q, want ORDER-1", order.ID)
	}
	if order.Status != "CREATED" {
		t.Errorf("order status = %q, want CREATED", order.Status)
	}
	if order.ApproveLink != "https://example.test/approve" {
		t.Errorf("approve link = %q", order.ApproveLink)
	}
}

func TestGetOrderReportsCapturedAmount(t *testing.T) {
	client := newTestProcessor(t, "COMPLETED", "150.00")

	order, err := client.GetOrder("ORDER-1")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Status != OrderStatusCompleted {
		t.Errorf("status = %q, want %q", order.Status, OrderStatusCompleted)
	}
	// The captured amount, not the requested amount, is authoritative.
	if order.Amount != "150.00" {
		t.Errorf("amount = %q, want the captured 150.00", order.Amount)
	}
}

func TestGetOrderUnreachableProcessor(t *testing.T) {
	os.Setenv("PAYPAL_API_BASE", "http://127.0.0.1:1")
	os.Setenv("PAYPAL_CLIENT_ID", "test-client")
	os.Setenv("PAYPAL_CLIENT_SECRET", "test-secret")
	client := NewPayPalClient()

	if _, err := client.GetOrder("ORDER-1"); err == nil {
		t.Fatal("expected an error for an unreachable processor")
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(220); got != "220.00" {
		t.Errorf("FormatAmount(220) = %q, want 220.00", got)
	}
	if got := FormatAmount(99.5); got != "99.50" {
		t.Errorf("FormatAmount(99.5) = %q, want 99.50", got)
	}
}

func TestAmountMatches(t *testing.T) {
	if !AmountMatches("220.00", 220) {
		t.Error("220.00 should match 220")
	}
	if AmountMatches("219.99", 220) {
		t.Error("219.99 should not match 220")
	}
	if AmountMatches("not-a-number", 220) {
		t.Error("garbage amount should not match")
	}
}
