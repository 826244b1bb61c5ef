package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"webpay-checkout/internal/apperrors"
	"webpay-checkout/internal/config"
)

const transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

const (
	// Gateway-reported transaction statuses.
	StatusAuthorized  = "AUTHORIZED"
	StatusFailed      = "FAILED"
	StatusInitialized = "INITIALIZED"
	StatusReversed    = "REVERSED"
	StatusNullified   = "NULLIFIED"
)

type WebpayClient interface {
	Create(ctx context.Context, buyOrder, sessionID string, amount int64, returnURL string) (*CreateResponse, error)
	Commit(ctx context.Context, token string) (*TransactionResult, error)
	Status(ctx context.Context, token string) (*TransactionResult, error)
}

type CreateResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// RedirectURL is where the buyer is sent to enter card details.
func (r *CreateResponse) RedirectURL() string {
	return r.URL + "?token_ws=" + r.Token
}

type CardDetail struct {
	CardNumber string `json:"card_number"` // last 4 digits only
}

// TransactionResult is the commit/status response. A Status other than
// AUTHORIZED is a successful gateway response carrying a negative outcome,
// not an error.
type TransactionResult struct {
	VCI                string     `json:"vci"`
	Amount             int64      `json:"amount"`
	Status             string     `json:"status"`
	BuyOrder           string     `json:"buy_order"`
	SessionID          string     `json:"session_id"`
	CardDetail         CardDetail `json:"card_detail"`
	AccountingDate     string     `json:"accounting_date"`
	TransactionDate    string     `json:"transaction_date"`
	AuthorizationCode  string     `json:"authorization_code"`
	PaymentTypeCode    string     `json:"payment_type_code"`
	ResponseCode       int        `json:"response_code"`
	InstallmentsNumber int        `json:"installments_number"`

	// Raw is the verbatim response body, kept for audit storage.
	Raw json.RawMessage `json:"-"`
}

func (r *TransactionResult) Authorized() bool {
	return r.Status == StatusAuthorized
}

type webpayClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	commerceCode string
	apiKey       string
}

func NewWebpayClient(cfg *config.Webpay) WebpayClient {
	return &webpayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   cfg.BaseApiURL,
		commerceCode: cfg.CommerceCode,
		apiKey:       cfg.APIKey,
	}
}

func (c *webpayClientImpl) do(ctx context.Context, op, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Gateway(op, fmt.Errorf("marshal req payload: %w", err))
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperrors.Gateway(op, fmt.Errorf("http new request: %w", err))
	}
	req.Header.Set("Tbk-Api-Key-Id", c.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Gateway(op, fmt.Errorf("http client do: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Gateway(op, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Gateway(op, fmt.Errorf("webpay error %d: %s", resp.StatusCode, string(body)))
	}

	return body, nil
}

func (c *webpayClientImpl) Create(ctx context.Context, buyOrder, sessionID string, amount int64, returnURL string) (*CreateResponse, error) {
	payload := map[string]any{
		"buy_order":  buyOrder,
		"session_id": sessionID,
		"amount":     amount,
		"return_url": returnURL,
	}

	body, err := c.do(ctx, "create", http.MethodPost, c.baseApiURL+transactionsPath, payload)
	if err != nil {
		return nil, err
	}

	var result CreateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Gateway("create", fmt.Errorf("decode response: %w", err))
	}
	return &result, nil
}

func (c *webpayClientImpl) Commit(ctx context.Context, token string) (*TransactionResult, error) {
	return c.transactionResult(ctx, "commit", http.MethodPut, token)
}

func (c *webpayClientImpl) Status(ctx context.Context, token string) (*TransactionResult, error) {
	return c.transactionResult(ctx, "status", http.MethodGet, token)
}

func (c *webpayClientImpl) transactionResult(ctx context.Context, op, method, token string) (*TransactionResult, error) {
	url := fmt.Sprintf("%s%s/%s", c.baseApiURL, transactionsPath, token)

	body, err := c.do(ctx, op, method, url, nil)
	if err != nil {
		return nil, err
	}

	var result TransactionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Gateway(op, fmt.Errorf("decode response: %w", err))
	}
	result.Raw = body

	return &result, nil
}
