package phonepe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"example.com/storefront/internal/usecase/checkout"
)

const (
	payPath        = "/pg/v1/pay"
	statusPathBase = "/pg/v1/status"
)

// Config carries everything the adapter needs; nothing is read from
// ambient globals.
type Config struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   string
	BaseURL     string
	FrontendURL string
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the PhonePe pay-page API. Both outbound calls share a
// circuit breaker so a flapping gateway fails fast instead of tying up
// request handlers.
type Client struct {
	cfg     Config
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

var _ checkout.Gateway = (*Client)(nil)

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "phonepe",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type payPayload struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		State                   string `json:"state"`
		TransactionID           string `json:"transactionId"`
		ResponseCode            string `json:"responseCode"`
		ResponseCodeDescription string `json:"responseCodeDescription"`
	} `json:"data"`
}

// CreatePayment registers the attempt and returns the hosted-page URL the
// buyer must be redirected to.
func (c *Client) CreatePayment(ctx context.Context, req checkout.GatewayRequest) (string, error) {
	payload := payPayload{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: req.MerchantTxnID,
		MerchantUserID:        strconv.FormatInt(req.UserID, 10),
		Amount:                req.AmountPaise,
		RedirectURL:           c.cfg.FrontendURL + "/payment-success?txn=" + req.MerchantTxnID,
		RedirectMode:          "REDIRECT",
		CallbackURL:           c.cfg.CallbackURL,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	b64 := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": b64})
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"X-VERIFY":     checksum(b64, payPath, c.cfg.SaltKey, c.cfg.SaltIndex),
	}
	respBody, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+payPath, headers, body)
	if err != nil {
		return "", err
	}

	var resp payResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decode pay response: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("gateway rejected payment: %s %s", resp.Code, resp.Message)
	}
	url := resp.Data.InstrumentResponse.RedirectInfo.URL
	if url == "" {
		return "", fmt.Errorf("gateway returned no redirect url")
	}
	return url, nil
}

// FetchStatus queries the attempt's outcome.
func (c *Client) FetchStatus(ctx context.Context, merchantTxnID string) (*checkout.GatewayStatus, error) {
	path := fmt.Sprintf("%s/%s/%s", statusPathBase, c.cfg.MerchantID, merchantTxnID)
	headers := map[string]string{
		"X-VERIFY":      checksum("", path, c.cfg.SaltKey, c.cfg.SaltIndex),
		"X-MERCHANT-ID": c.cfg.MerchantID,
	}
	respBody, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+path, headers, nil)
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	status := &checkout.GatewayStatus{
		Completed:     resp.Success && resp.Data.State == "COMPLETED",
		TransactionID: resp.Data.TransactionID,
		Code:          resp.Code,
		Message:       resp.Message,
	}
	if status.Code == "" {
		status.Code = resp.Data.ResponseCode
	}
	if status.Message == "" {
		status.Message = resp.Data.ResponseCodeDescription
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, respBody)
		}
		return respBody, nil
	})
}
