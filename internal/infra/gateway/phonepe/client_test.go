package phonepe

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/usecase/checkout"
)

func testConfig(baseURL string) Config {
	return Config{
		MerchantID:  "MERCHANT1",
		SaltKey:     "test-salt",
		SaltIndex:   "1",
		BaseURL:     baseURL,
		FrontendURL: "https://shop.example",
		CallbackURL: "https://api.example/api/v1/order/phonepe/verify",
		Timeout:     2 * time.Second,
	}
}

func TestCreatePaymentSignsAndDecodesRequest(t *testing.T) {
	var gotPath, gotVerify string
	var gotPayload payPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVerify = r.Header.Get("X-VERIFY")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var envelope struct {
			Request string `json:"request"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))

		raw, err := base64.StdEncoding.DecodeString(envelope.Request)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotPayload))

		// The signature covers the base64 envelope content.
		require.Equal(t, checksum(envelope.Request, payPath, "test-salt", "1"), gotVerify)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"code": "PAYMENT_INITIATED",
			"data": {"instrumentResponse": {"redirectInfo": {"url": "https://pay.phonepe.example/page/abc"}}}
		}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	url, err := c.CreatePayment(context.Background(), checkout.GatewayRequest{
		MerchantTxnID: "txn-abc",
		UserID:        10,
		AmountPaise:   51800,
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.phonepe.example/page/abc", url)

	require.Equal(t, payPath, gotPath)
	require.Equal(t, "MERCHANT1", gotPayload.MerchantID)
	require.Equal(t, "txn-abc", gotPayload.MerchantTransactionID)
	require.Equal(t, "10", gotPayload.MerchantUserID)
	require.Equal(t, int64(51800), gotPayload.Amount)
	require.Equal(t, "https://shop.example/payment-success?txn=txn-abc", gotPayload.RedirectURL)
	require.Equal(t, "REDIRECT", gotPayload.RedirectMode)
	require.Equal(t, "https://api.example/api/v1/order/phonepe/verify", gotPayload.CallbackURL)
	require.Equal(t, "PAY_PAGE", gotPayload.PaymentInstrument.Type)
}

func TestCreatePaymentRejectedByGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "code": "BAD_REQUEST", "message": "amount mismatch"}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.CreatePayment(context.Background(), checkout.GatewayRequest{MerchantTxnID: "txn-abc", UserID: 10, AmountPaise: 100})
	require.Error(t, err)
	require.Contains(t, err.Error(), "BAD_REQUEST")
}

func TestCreatePaymentMissingRedirectURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "code": "PAYMENT_INITIATED", "data": {}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.CreatePayment(context.Background(), checkout.GatewayRequest{MerchantTxnID: "txn-abc", UserID: 10, AmountPaise: 100})
	require.Error(t, err)
}

func TestFetchStatusCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pg/v1/status/MERCHANT1/txn-abc", r.URL.Path)
		require.Equal(t, "MERCHANT1", r.Header.Get("X-MERCHANT-ID"))
		require.Equal(t, checksum("", "/pg/v1/status/MERCHANT1/txn-abc", "test-salt", "1"), r.Header.Get("X-VERIFY"))

		w.Write([]byte(`{
			"success": true,
			"code": "PAYMENT_SUCCESS",
			"message": "Your payment is successful.",
			"data": {"state": "COMPLETED", "transactionId": "T2406261520"}
		}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	status, err := c.FetchStatus(context.Background(), "txn-abc")
	require.NoError(t, err)
	require.True(t, status.Completed)
	require.Equal(t, "T2406261520", status.TransactionID)
}

func TestFetchStatusFailedFallsBackToResponseCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"success": false,
			"data": {"state": "FAILED", "responseCode": "ZU", "responseCodeDescription": "declined by bank"}
		}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	status, err := c.FetchStatus(context.Background(), "txn-abc")
	require.NoError(t, err)
	require.False(t, status.Completed)
	require.Equal(t, "ZU", status.Code)
	require.Equal(t, "declined by bank", status.Message)
}

func TestFetchStatusPendingStateIsNotCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "code": "PAYMENT_PENDING", "data": {"state": "PENDING"}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	status, err := c.FetchStatus(context.Background(), "txn-abc")
	require.NoError(t, err)
	require.False(t, status.Completed)
}

func TestNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.FetchStatus(context.Background(), "txn-abc")
	require.Error(t, err)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := c.FetchStatus(ctx, "txn-abc")
		require.Error(t, err)
	}

	// The breaker is open now; the next call fails without touching the
	// server.
	srv.Close()
	_, err := c.FetchStatus(ctx, "txn-abc")
	require.Error(t, err)
}
