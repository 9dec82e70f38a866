// Package lnd implements the lightning.Client interface against an LND
// node's REST interface, authenticated with a macaroon bearer credential.
package lnd

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/40acres/lnswapd/lightning"
	"github.com/lightningnetwork/lnd/lntypes"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultQueryTimeout bounds balance and listing queries.
	DefaultQueryTimeout = 15 * time.Second
	// DefaultPaymentTimeout bounds payments and settlements, which can
	// legitimately take a while to route.
	DefaultPaymentTimeout = 60 * time.Second

	macaroonHeader = "Grpc-Metadata-macaroon"
)

// RetryPolicy configures the backoff applied to retryable (read-only) calls
// at the adapter boundary.
type RetryPolicy struct {
	BaseDelay   time.Duration
	Factor      float64
	MaxAttempts int
	Jitter      float64
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:   500 * time.Millisecond,
		Factor:      2.0,
		MaxAttempts: 3,
		Jitter:      0.2,
	}
}

// Validate checks if the policy is usable.
func (p RetryPolicy) Validate() error {
	if p.BaseDelay <= 0 {
		return errors.New("invalid retry policy: base delay must be positive")
	}
	if p.Factor < 1 {
		return errors.New("invalid retry policy: factor must be at least 1")
	}
	if p.MaxAttempts <= 0 {
		return errors.New("invalid retry policy: max attempts must be positive")
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		return errors.New("invalid retry policy: jitter must be between 0 and 1")
	}

	return nil
}

// delay returns the backoff before the given retry attempt (0-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 0; i < attempt; i++ {
		d *= p.Factor
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}

	return time.Duration(d)
}

type Option func(*Options)

func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.endpoint = endpoint
	}
}

func WithMacaroonHex(macaroonHex string) Option {
	return func(o *Options) {
		o.macaroonHex = macaroonHex
	}
}

// WithInsecureSkipVerify disables TLS certificate validation. Local and
// regtest nodes use self-signed certificates; this must never be on in a
// production build.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *Options) {
		o.skipTLSVerify = skip
	}
}

func WithQueryTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.queryTimeout = timeout
	}
}

func WithPaymentTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.paymentTimeout = timeout
	}
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *Options) {
		o.retry = policy
	}
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.httpClient = client
	}
}

type Options struct {
	endpoint       string
	macaroonHex    string
	skipTLSVerify  bool
	queryTimeout   time.Duration
	paymentTimeout time.Duration
	retry          RetryPolicy
	httpClient     *http.Client
}

// Client talks to a single LND node over REST.
type Client struct {
	endpoint       string
	macaroonHex    string
	queryTimeout   time.Duration
	paymentTimeout time.Duration
	retry          RetryPolicy
	httpClient     *http.Client
}

var _ lightning.Client = (*Client)(nil)

// NewClient creates a REST client for one node from its endpoint and
// hex-encoded macaroon.
func NewClient(opts ...Option) (*Client, error) {
	options := Options{
		queryTimeout:   DefaultQueryTimeout,
		paymentTimeout: DefaultPaymentTimeout,
		retry:          DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.endpoint == "" {
		return nil, errors.New("lnd: endpoint is required")
	}
	if options.macaroonHex == "" {
		return nil, errors.New("lnd: macaroon is required")
	}
	if err := options.retry.Validate(); err != nil {
		return nil, err
	}

	httpClient := options.httpClient
	if httpClient == nil {
		transport := &http.Transport{}
		if options.skipTLSVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local nodes
		}
		httpClient = &http.Client{Transport: transport}
	}

	return &Client{
		endpoint:       strings.TrimSuffix(options.endpoint, "/"),
		macaroonHex:    options.macaroonHex,
		queryTimeout:   options.queryTimeout,
		paymentTimeout: options.paymentTimeout,
		retry:          options.retry,
		httpClient:     httpClient,
	}, nil
}

// restError is LND's REST error envelope.
type restError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// apiError is a decoded non-2xx answer from the node: the request reached
// it, it just refused. Callers can match on the envelope fields instead of
// the formatted string.
type apiError struct {
	Op      string
	Status  string
	Message string
	Code    int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Status, e.Message)
}

// isAlreadySettled reports whether the node refused because the invoice is
// already settled.
func (e *apiError) isAlreadySettled() bool {
	return strings.Contains(e.Message, "already settled")
}

func (c *Client) do(ctx context.Context, op, method, path string, timeout time.Duration, reqBody, resBody any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set(macaroonHeader, c.macaroonHex)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &lightning.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var envelope restError
		if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("%s: %s", op, res.Status)
		}
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}

		return &apiError{
			Op:      op,
			Status:  res.Status,
			Message: msg,
			Code:    envelope.Code,
		}
	}

	if resBody != nil {
		if err := json.NewDecoder(res.Body).Decode(resBody); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}

	return nil
}

// doGet performs an idempotent query, retrying transport failures with
// backoff.
func (c *Client) doGet(ctx context.Context, op, path string, resBody any) error {
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		lastErr = c.do(ctx, op, http.MethodGet, path, c.queryTimeout, nil, resBody)
		if lastErr == nil || !lightning.IsTransport(lastErr) {
			return lastErr
		}

		if attempt < c.retry.MaxAttempts-1 {
			delay := c.retry.delay(attempt)
			log.WithError(lastErr).Warnf("%s: retrying in %s", op, delay)
			select {
			case <-ctx.Done():
				return &lightning.TransportError{Op: op, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}
	}

	return lastErr
}

type addInvoiceRequest struct {
	Value     uint64 `json:"value,string"`
	Memo      string `json:"memo"`
	Expiry    int64  `json:"expiry,string"`
	RPreimage string `json:"r_preimage"`
}

type addInvoiceResponse struct {
	PaymentRequest string `json:"payment_request"`
	RHash          string `json:"r_hash"`
	AddIndex       uint64 `json:"add_index,string"`
}

func (c *Client) CreateInvoice(ctx context.Context, amountSats uint64, memo string, preimage lntypes.Preimage, expiry time.Duration) (*lightning.Invoice, error) {
	req := addInvoiceRequest{
		Value:     amountSats,
		Memo:      memo,
		Expiry:    int64(expiry.Seconds()),
		RPreimage: base64.StdEncoding.EncodeToString(preimage[:]),
	}

	var res addInvoiceResponse
	if err := c.do(ctx, "create invoice", http.MethodPost, "/v1/invoices", c.queryTimeout, req, &res); err != nil {
		return nil, err
	}
	if res.PaymentRequest == "" {
		return nil, errors.New("create invoice: node returned no payment request")
	}

	hash, err := lightning.HashFromBase64(res.RHash)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	return &lightning.Invoice{
		PaymentRequest: res.PaymentRequest,
		PaymentHash:    hash,
	}, nil
}

type addHodlInvoiceRequest struct {
	Value  uint64 `json:"value,string"`
	Memo   string `json:"memo"`
	Hash   string `json:"hash"`
	Expiry int64  `json:"expiry,string"`
}

type addHodlInvoiceResponse struct {
	PaymentRequest string `json:"payment_request"`
	AddIndex       uint64 `json:"add_index,string"`
}

func (c *Client) CreateHodlInvoice(ctx context.Context, amountSats uint64, memo string, hash lntypes.Hash, expiry time.Duration) (*lightning.Invoice, error) {
	req := addHodlInvoiceRequest{
		Value:  amountSats,
		Memo:   memo,
		Hash:   base64.StdEncoding.EncodeToString(hash[:]),
		Expiry: int64(expiry.Seconds()),
	}

	var res addHodlInvoiceResponse
	if err := c.do(ctx, "create hodl invoice", http.MethodPost, "/v2/invoices/hodl", c.queryTimeout, req, &res); err != nil {
		return nil, err
	}
	if res.PaymentRequest == "" {
		return nil, errors.New("create hodl invoice: node returned no payment request")
	}

	// The hodl response carries no r_hash: the node only ever learned the
	// hash we supplied.
	return &lightning.Invoice{
		PaymentRequest: res.PaymentRequest,
		PaymentHash:    hash,
	}, nil
}

type sendPaymentRequest struct {
	PaymentRequest string `json:"payment_request"`
}

type sendPaymentResponse struct {
	PaymentError    string        `json:"payment_error"`
	PaymentPreimage string        `json:"payment_preimage"`
	PaymentHash     string        `json:"payment_hash"`
	PaymentRoute    *paymentRoute `json:"payment_route"`
}

type paymentRoute struct {
	TotalFees uint64 `json:"total_fees,string"`
}

func (c *Client) PayInvoice(ctx context.Context, paymentRequest string) (*lightning.PaymentResult, error) {
	req := sendPaymentRequest{PaymentRequest: paymentRequest}

	var res sendPaymentResponse
	if err := c.do(ctx, "pay invoice", http.MethodPost, "/v1/channels/transactions", c.paymentTimeout, req, &res); err != nil {
		return nil, err
	}

	// A routing or liquidity failure arrives as a 200 with payment_error
	// set. It is a normal outcome, not a transport problem.
	if res.PaymentError != "" {
		return nil, &lightning.PaymentError{Reason: res.PaymentError}
	}

	preimage, err := lightning.PreimageFromBase64(res.PaymentPreimage)
	if err != nil {
		return nil, fmt.Errorf("pay invoice: %w", err)
	}
	hash, err := lightning.HashFromBase64(res.PaymentHash)
	if err != nil {
		return nil, fmt.Errorf("pay invoice: %w", err)
	}

	result := &lightning.PaymentResult{
		PaymentHash: hash,
		Preimage:    preimage,
	}
	if res.PaymentRoute != nil {
		result.FeeSats = res.PaymentRoute.TotalFees
	}

	return result, nil
}

type settleInvoiceRequest struct {
	Preimage string `json:"preimage"`
}

func (c *Client) SettleInvoice(ctx context.Context, preimage lntypes.Preimage) error {
	req := settleInvoiceRequest{
		Preimage: base64.StdEncoding.EncodeToString(preimage[:]),
	}

	return c.do(ctx, "settle invoice", http.MethodPost, "/v2/invoices/settle", c.paymentTimeout, req, nil)
}

type cancelInvoiceRequest struct {
	PaymentHash string `json:"payment_hash"`
}

func (c *Client) CancelInvoice(ctx context.Context, paymentHash lntypes.Hash) error {
	req := cancelInvoiceRequest{
		PaymentHash: base64.StdEncoding.EncodeToString(paymentHash[:]),
	}

	err := c.do(ctx, "cancel invoice", http.MethodPost, "/v2/invoices/cancel", c.queryTimeout, req, nil)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.isAlreadySettled() {
		return lightning.ErrInvoiceSettled
	}

	return err
}

type listInvoicesResponse struct {
	Invoices []struct {
		RHash    string `json:"r_hash"`
		State    string `json:"state"`
		Value    uint64 `json:"value,string"`
		AddIndex uint64 `json:"add_index,string"`
	} `json:"invoices"`
}

func (c *Client) ListInvoices(ctx context.Context) ([]lightning.InvoiceStatus, error) {
	var res listInvoicesResponse
	if err := c.doGet(ctx, "list invoices", "/v1/invoices", &res); err != nil {
		return nil, err
	}

	invoices := make([]lightning.InvoiceStatus, 0, len(res.Invoices))
	for _, inv := range res.Invoices {
		hash, err := lightning.HashFromBase64(inv.RHash)
		if err != nil {
			return nil, fmt.Errorf("list invoices: %w", err)
		}
		invoices = append(invoices, lightning.InvoiceStatus{
			PaymentHash: hash,
			State:       lightning.InvoiceState(inv.State),
			AmountSats:  inv.Value,
			AddIndex:    inv.AddIndex,
		})
	}

	return invoices, nil
}

type blockchainBalanceResponse struct {
	TotalBalance uint64 `json:"total_balance,string"`
}

func (c *Client) GetOnchainBalance(ctx context.Context) (uint64, error) {
	var res blockchainBalanceResponse
	if err := c.doGet(ctx, "get onchain balance", "/v1/balance/blockchain", &res); err != nil {
		return 0, err
	}

	return res.TotalBalance, nil
}

type channelAmount struct {
	Sat uint64 `json:"sat,string"`
}

type channelBalanceResponse struct {
	LocalBalance  channelAmount `json:"local_balance"`
	RemoteBalance channelAmount `json:"remote_balance"`
}

func (c *Client) GetChannelBalance(ctx context.Context) (uint64, uint64, error) {
	var res channelBalanceResponse
	if err := c.doGet(ctx, "get channel balance", "/v1/balance/channels", &res); err != nil {
		return 0, 0, err
	}

	return res.LocalBalance.Sat, res.RemoteBalance.Sat, nil
}

type listChannelsResponse struct {
	Channels []struct {
		LocalBalance  uint64 `json:"local_balance,string"`
		RemoteBalance uint64 `json:"remote_balance,string"`
	} `json:"channels"`
}

func (c *Client) GetChannels(ctx context.Context) ([]lightning.ChannelBalance, error) {
	var res listChannelsResponse
	if err := c.doGet(ctx, "get channels", "/v1/channels", &res); err != nil {
		return nil, err
	}

	channels := make([]lightning.ChannelBalance, 0, len(res.Channels))
	for _, ch := range res.Channels {
		channels = append(channels, lightning.ChannelBalance{
			LocalSats:  ch.LocalBalance,
			RemoteSats: ch.RemoteBalance,
		})
	}

	return channels, nil
}
