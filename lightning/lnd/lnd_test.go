package lnd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/40acres/lnswapd/lightning"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/stretchr/testify/require"
)

const testMacaroonHex = "0201036c6e640247"

func testPreimage(t *testing.T) (lntypes.Preimage, lntypes.Hash) {
	t.Helper()

	var raw [32]byte
	copy(raw[:], "thirty-two bytes of test preimage")
	preimage, err := lntypes.MakePreimage(raw[:32])
	require.NoError(t, err)

	return preimage, preimage.Hash()
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithEndpoint(server.URL),
		WithMacaroonHex(testMacaroonHex),
		WithHTTPClient(server.Client()),
		WithRetryPolicy(RetryPolicy{
			BaseDelay:   time.Millisecond,
			Factor:      1,
			MaxAttempts: 2,
		}),
	}, opts...)

	client, err := NewClient(opts...)
	require.NoError(t, err)

	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(WithMacaroonHex(testMacaroonHex))
	require.ErrorContains(t, err, "endpoint")

	_, err = NewClient(WithEndpoint("https://localhost:8081"))
	require.ErrorContains(t, err, "macaroon")

	_, err = NewClient(
		WithEndpoint("https://localhost:8081"),
		WithMacaroonHex(testMacaroonHex),
		WithRetryPolicy(RetryPolicy{BaseDelay: -time.Second}),
	)
	require.ErrorContains(t, err, "retry policy")
}

func TestRetryPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		valid  bool
	}{
		{"default", DefaultRetryPolicy(), true},
		{"zero base delay", RetryPolicy{Factor: 2, MaxAttempts: 3}, false},
		{"factor below one", RetryPolicy{BaseDelay: time.Second, Factor: 0.5, MaxAttempts: 3}, false},
		{"no attempts", RetryPolicy{BaseDelay: time.Second, Factor: 2}, false},
		{"jitter above one", RetryPolicy{BaseDelay: time.Second, Factor: 2, MaxAttempts: 3, Jitter: 1.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestCreateInvoice(t *testing.T) {
	preimage, hash := testPreimage(t)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/invoices", r.URL.Path)
		require.Equal(t, testMacaroonHex, r.Header.Get("Grpc-Metadata-macaroon"))

		var req addInvoiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, uint64(5000), req.Value)
		require.Equal(t, "swap out", req.Memo)
		require.Equal(t, int64(3600), req.Expiry)
		require.Equal(t, base64.StdEncoding.EncodeToString(preimage[:]), req.RPreimage)

		require.NoError(t, json.NewEncoder(w).Encode(addInvoiceResponse{
			PaymentRequest: "lnbcrt50u1fake",
			RHash:          base64.StdEncoding.EncodeToString(hash[:]),
			AddIndex:       7,
		}))
	}))

	invoice, err := client.CreateInvoice(context.Background(), 5000, "swap out", preimage, time.Hour)
	require.NoError(t, err)
	require.Equal(t, "lnbcrt50u1fake", invoice.PaymentRequest)
	require.Equal(t, hash, invoice.PaymentHash)
}

func TestCreateHodlInvoice(t *testing.T) {
	_, hash := testPreimage(t)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/invoices/hodl", r.URL.Path)

		var req addHodlInvoiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, base64.StdEncoding.EncodeToString(hash[:]), req.Hash)

		require.NoError(t, json.NewEncoder(w).Encode(addHodlInvoiceResponse{
			PaymentRequest: "lnbcrt50u1hodl",
		}))
	}))

	invoice, err := client.CreateHodlInvoice(context.Background(), 5000, "hodl", hash, time.Hour)
	require.NoError(t, err)
	require.Equal(t, "lnbcrt50u1hodl", invoice.PaymentRequest)
	require.Equal(t, hash, invoice.PaymentHash)
}

func TestPayInvoice(t *testing.T) {
	preimage, hash := testPreimage(t)

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/channels/transactions", r.URL.Path)

			require.NoError(t, json.NewEncoder(w).Encode(sendPaymentResponse{
				PaymentPreimage: base64.StdEncoding.EncodeToString(preimage[:]),
				PaymentHash:     base64.StdEncoding.EncodeToString(hash[:]),
				PaymentRoute:    &paymentRoute{TotalFees: 2},
			}))
		}))

		result, err := client.PayInvoice(context.Background(), "lnbcrt50u1fake")
		require.NoError(t, err)
		require.Equal(t, preimage, result.Preimage)
		require.Equal(t, hash, result.PaymentHash)
		require.Equal(t, uint64(2), result.FeeSats)
	})

	t.Run("payment error is not a transport error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode(sendPaymentResponse{
				PaymentError: "no route to destination",
			}))
		}))

		_, err := client.PayInvoice(context.Background(), "lnbcrt50u1fake")
		require.True(t, lightning.IsPayment(err))
		require.False(t, lightning.IsTransport(err))
		require.ErrorContains(t, err, "no route to destination")
	})
}

func TestSettleInvoice(t *testing.T) {
	preimage, _ := testPreimage(t)

	var got settleInvoiceRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/invoices/settle", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("{}"))
	}))

	require.NoError(t, client.SettleInvoice(context.Background(), preimage))
	require.Equal(t, base64.StdEncoding.EncodeToString(preimage[:]), got.Preimage)
}

func TestCancelInvoice(t *testing.T) {
	_, hash := testPreimage(t)

	t.Run("ok", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2/invoices/cancel", r.URL.Path)
			w.Write([]byte("{}"))
		}))

		require.NoError(t, client.CancelInvoice(context.Background(), hash))
	})

	t.Run("already settled", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			require.NoError(t, json.NewEncoder(w).Encode(restError{
				Message: "invoice already settled",
				Code:    2,
			}))
		}))

		err := client.CancelInvoice(context.Background(), hash)
		require.ErrorIs(t, err, lightning.ErrInvoiceSettled)
	})

	t.Run("already settled in legacy error field", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			require.NoError(t, json.NewEncoder(w).Encode(restError{
				Error: "invoice already settled",
				Code:  2,
			}))
		}))

		err := client.CancelInvoice(context.Background(), hash)
		require.ErrorIs(t, err, lightning.ErrInvoiceSettled)
	})

	t.Run("other refusals stay errors", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			require.NoError(t, json.NewEncoder(w).Encode(restError{
				Message: "invoice already canceled",
				Code:    2,
			}))
		}))

		err := client.CancelInvoice(context.Background(), hash)
		require.Error(t, err)
		require.NotErrorIs(t, err, lightning.ErrInvoiceSettled)
		require.ErrorContains(t, err, "invoice already canceled")
	})
}

func TestListInvoices(t *testing.T) {
	_, hash := testPreimage(t)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/invoices", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)

		w.Write([]byte(`{"invoices": [{"r_hash": "` +
			base64.StdEncoding.EncodeToString(hash[:]) +
			`", "state": "OPEN", "value": "5000", "add_index": "3"}]}`))
	}))

	invoices, err := client.ListInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Equal(t, hash, invoices[0].PaymentHash)
	require.Equal(t, lightning.InvoiceOpen, invoices[0].State)
	require.Equal(t, uint64(5000), invoices[0].AmountSats)
	require.Equal(t, uint64(3), invoices[0].AddIndex)
}

func TestBalances(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/balance/blockchain":
			w.Write([]byte(`{"total_balance": "123456"}`))
		case "/v1/balance/channels":
			w.Write([]byte(`{"local_balance": {"sat": "900"}, "remote_balance": {"sat": "100"}}`))
		case "/v1/channels":
			w.Write([]byte(`{"channels": [{"local_balance": "600", "remote_balance": "400"}, {"local_balance": "300", "remote_balance": "700"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	onchain, err := client.GetOnchainBalance(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(123456), onchain)

	local, remote, err := client.GetChannelBalance(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(900), local)
	require.Equal(t, uint64(100), remote)

	channels, err := client.GetChannels(context.Background())
	require.NoError(t, err)
	require.Equal(t, []lightning.ChannelBalance{
		{LocalSats: 600, RemoteSats: 400},
		{LocalSats: 300, RemoteSats: 700},
	}, channels)
}

func TestGetRetriesTransportFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			// Kill the connection so the client sees a transport error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()

			return
		}
		w.Write([]byte(`{"total_balance": "42"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(
		WithEndpoint(server.URL),
		WithMacaroonHex(testMacaroonHex),
		WithHTTPClient(server.Client()),
		WithRetryPolicy(RetryPolicy{BaseDelay: time.Millisecond, Factor: 1, MaxAttempts: 3}),
	)
	require.NoError(t, err)

	balance, err := client.GetOnchainBalance(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), balance)
	require.Equal(t, 2, attempts)
}

func TestPostIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(
		WithEndpoint(server.URL),
		WithMacaroonHex(testMacaroonHex),
		WithHTTPClient(server.Client()),
		WithRetryPolicy(RetryPolicy{BaseDelay: time.Millisecond, Factor: 1, MaxAttempts: 3}),
	)
	require.NoError(t, err)

	_, err = client.PayInvoice(context.Background(), "lnbcrt50u1fake")
	require.True(t, lightning.IsTransport(err))
	require.Equal(t, 1, attempts)
}

func TestAPIErrorIsNotTransport(t *testing.T) {
	_, hash := testPreimage(t)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		require.NoError(t, json.NewEncoder(w).Encode(restError{Message: "invoice expired"}))
	}))

	err := client.CancelInvoice(context.Background(), hash)
	require.Error(t, err)
	require.False(t, lightning.IsTransport(err))
	require.ErrorContains(t, err, "invoice expired")
}
