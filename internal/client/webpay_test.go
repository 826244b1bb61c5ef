package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webpay-checkout/internal/apperrors"
	"webpay-checkout/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) WebpayClient {
	return NewWebpayClient(&config.Webpay{
		BaseApiURL:   baseURL,
		CommerceCode: "597055555532",
		APIKey:       "579B532A7440BB0C9079DED94D31EA161",
	})
}

func TestCreateSendsCredentialsAndPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, transactionsPath, r.URL.Path)
		assert.Equal(t, "597055555532", r.Header.Get("Tbk-Api-Key-Id"))
		assert.Equal(t, "579B532A7440BB0C9079DED94D31EA161", r.Header.Get("Tbk-Api-Key-Secret"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ORD00000001aaaaaa", payload["buy_order"])
		assert.Equal(t, float64(25000), payload["amount"])
		assert.Equal(t, "http://shop/api/payment/commit", payload["return_url"])

		json.NewEncoder(w).Encode(map[string]string{
			"token": "e9d555262db0f989fb77daa313343e70",
			"url":   "https://webpay3gint.transbank.cl/webpayserver/initTransaction",
		})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Create(context.Background(),
		"ORD00000001aaaaaa", "SES-00000000-0", 25000, "http://shop/api/payment/commit")
	require.NoError(t, err)

	assert.Equal(t, "e9d555262db0f989fb77daa313343e70", resp.Token)
	assert.Equal(t,
		"https://webpay3gint.transbank.cl/webpayserver/initTransaction?token_ws=e9d555262db0f989fb77daa313343e70",
		resp.RedirectURL())
}

func TestCommitParsesResultAndKeepsRawBody(t *testing.T) {
	body := `{
		"vci": "TSY",
		"amount": 25000,
		"status": "AUTHORIZED",
		"buy_order": "ORD00000001aaaaaa",
		"session_id": "SES-00000000-0",
		"card_detail": {"card_number": "6623"},
		"accounting_date": "0301",
		"transaction_date": "2025-03-01T12:00:00.000Z",
		"authorization_code": "1213",
		"payment_type_code": "VN",
		"response_code": 0,
		"installments_number": 0
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, transactionsPath+"/tok-123", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Commit(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.True(t, result.Authorized())
	assert.Equal(t, "ORD00000001aaaaaa", result.BuyOrder)
	assert.Equal(t, int64(25000), result.Amount)
	assert.Equal(t, "6623", result.CardDetail.CardNumber)
	assert.Equal(t, "1213", result.AuthorizationCode)
	assert.JSONEq(t, body, string(result.Raw))
}

func TestCommitNonAuthorizedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "FAILED", "buy_order": "ORD00000001aaaaaa", "response_code": -1}`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Commit(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.False(t, result.Authorized())
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, -1, result.ResponseCode)
}

func TestCommitGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error_message": "Invalid value for parameter: token"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Commit(context.Background(), "bad-token")
	assert.True(t, apperrors.IsGateway(err))
}

func TestStatusIsReadOnlyGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"status": "AUTHORIZED", "buy_order": "ORD00000001aaaaaa"}`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Status(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.True(t, result.Authorized())
}

func TestCreateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testClient(srv.URL).Create(context.Background(),
		"ORD00000001aaaaaa", "SES-00000000-0", 25000, "http://shop/return")
	assert.True(t, apperrors.IsGateway(err))
}
