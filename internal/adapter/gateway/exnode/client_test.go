package exnode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_KnownVectors(t *testing.T) {
	body := []byte(`{"tracker_id":"abc"}`)
	assert.Equal(t,
		"5ca3258e05b20d6d21336637efb77492f319e43ecd038a6c306f920b074b67463b32273017c60de9bec5d7311cb1f9983789ecadaffed971f45918d5506b9e16",
		Sign("secret-key", 1700000000, body))
	assert.Equal(t,
		"8e0d2c01a64d5f2c08d9daf7f16affa21db4e6903d998f708e1df1fbbaa59cf2fbfb92a2dd2782860b079d0b4b6d2cd26a37b306d64b0fd7cb3d4a247f86978f",
		Sign("secret-key", 1700000000, nil))
}

func TestVerify(t *testing.T) {
	sig := Sign("k", 42, []byte("x"))
	assert.True(t, Verify("k", 42, []byte("x"), sig))
	assert.False(t, Verify("k", 43, []byte("x"), sig))
	assert.False(t, Verify("other", 42, []byte("x"), sig))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(config.ExnodeConfig{
		APIURL:      srv.URL,
		PublicKey:   "pub",
		PrivateKey:  "priv",
		MerchantID:  "merchant-uuid",
		Token:       "USDTTRC",
		CallbackURL: "https://api.example.com/api/v1/webhooks/exnode",
	}, srv.Client(), zerolog.Nop())
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestClient_CreateOrder(t *testing.T) {
	clientRef := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, createPath, r.URL.Path)
		assert.Equal(t, "pub", r.Header.Get("ApiPublic"))
		assert.Equal(t, "1700000000", r.Header.Get("Timestamp"))

		body, _ := io.ReadAll(r.Body)
		assert.True(t, Verify("priv", 1700000000, body, r.Header.Get("Signature")), "signature must cover the exact body")

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "USDTTRC", req["token"])
		assert.Equal(t, 450.0, req["amount"])
		assert.Equal(t, "RUB", req["fiat_currency"])
		assert.Equal(t, clientRef.String(), req["client_transaction_id"])
		assert.Equal(t, true, req["payform"])
		assert.Equal(t, true, req["strict_currency"])
		assert.Equal(t, "merchant-uuid", req["merchant_uuid"])
		assert.Equal(t, "https://api.example.com/api/v1/webhooks/exnode", req["call_back_url"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"tracker_id":  "trk-1",
			"payment_url": "https://pay.exnode.io/trk-1",
		})
	}))
	defer srv.Close()

	order, err := newTestClient(t, srv).CreateOrder(context.Background(), ports.GatewayOrderRequest{
		ClientRef: clientRef,
		Amount:    45000,
		Currency:  "RUB",
		ReturnURL: "https://site.example/return?state=s",
	})
	require.NoError(t, err)
	assert.Equal(t, "trk-1", order.ExternalRef)
	assert.Equal(t, "https://pay.exnode.io/trk-1", order.PaymentURL)
}

func TestClient_CreateOrder_RejectedOn4xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"message":"merchant not activated"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateOrder(context.Background(), ports.GatewayOrderRequest{
		ClientRef: uuid.New(), Amount: 45000, Currency: "RUB",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrGatewayRejected))
}

func TestClient_CreateOrder_ServerErrorIsNotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateOrder(context.Background(), ports.GatewayOrderRequest{
		ClientRef: uuid.New(), Amount: 45000, Currency: "RUB",
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrGatewayRejected))
}

func TestClient_CreateOrder_MissingPaymentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracker_id":"trk-2","receiver":"T..."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateOrder(context.Background(), ports.GatewayOrderRequest{
		ClientRef: uuid.New(), Amount: 45000, Currency: "RUB",
	})
	assert.True(t, errors.Is(err, ports.ErrGatewayRejected))
}

func TestClient_FetchStatus(t *testing.T) {
	cases := []struct {
		status  string
		outcome domain.SettlementOutcome
	}{
		{"SUCCESS", domain.OutcomeSucceeded},
		{"EXPIRED", domain.OutcomeFailed},
		{"ERROR", domain.OutcomeFailed},
		{"CREATED", domain.OutcomePending},
		{"PAYMENT", domain.OutcomePending},
		{"ACCEPTED", domain.OutcomePending},
		{"PARTIALLYPAID", domain.OutcomePending},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, getPath, r.URL.Path)
				assert.Equal(t, "trk-9", r.URL.Query().Get("tracker_id"))
				ts, _ := strconv.ParseInt(r.Header.Get("Timestamp"), 10, 64)
				assert.True(t, Verify("priv", ts, nil, r.Header.Get("Signature")))

				_, _ = w.Write([]byte(`{"tracker_id":"trk-9","client_transaction_id":"ref-1","status":"` + tc.status + `","payed_amount":5.12}`))
			}))
			defer srv.Close()

			st, err := newTestClient(t, srv).FetchStatus(context.Background(), "trk-9")
			require.NoError(t, err)
			assert.Equal(t, "trk-9", st.ExternalRef)
			assert.Equal(t, "ref-1", st.ClientRef)
			assert.Equal(t, tc.status, st.RawStatus)
			assert.Equal(t, tc.outcome, st.Outcome)
		})
	}
}

func TestClient_FetchStatus_EmptyTracker(t *testing.T) {
	c := NewClient(config.ExnodeConfig{}, http.DefaultClient, zerolog.Nop())
	_, err := c.FetchStatus(context.Background(), " ")
	assert.Error(t, err)
}
