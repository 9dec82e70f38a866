package lightning

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
)

// DefaultInvoiceExpiry is used when the caller does not bound the invoice
// lifetime explicitly.
const DefaultInvoiceExpiry = time.Hour

// Invoice is the typed result of an invoice creation call.
type Invoice struct {
	PaymentRequest string
	PaymentHash    lntypes.Hash
}

// PaymentResult is the typed result of a successful payment.
type PaymentResult struct {
	PaymentHash lntypes.Hash
	Preimage    lntypes.Preimage
	FeeSats     uint64
}

// ChannelBalance is the local/remote split of a single channel, in sats.
type ChannelBalance struct {
	LocalSats  uint64
	RemoteSats uint64
}

// InvoiceState mirrors the node-reported invoice lifecycle.
type InvoiceState string

const (
	InvoiceOpen     InvoiceState = "OPEN"
	InvoiceSettled  InvoiceState = "SETTLED"
	InvoiceCanceled InvoiceState = "CANCELED"
	InvoiceAccepted InvoiceState = "ACCEPTED"
)

// InvoiceStatus is a single entry of an invoice listing.
type InvoiceStatus struct {
	PaymentHash lntypes.Hash
	State       InvoiceState
	AmountSats  uint64
	AddIndex    uint64
}

//go:generate go tool mockgen -destination=mock.go -package=lightning . Client
type Client interface {
	// CreateInvoice creates a plain invoice: the preimage is handed to the
	// node, which derives the payment hash and settles on its own once paid.
	CreateInvoice(ctx context.Context, amountSats uint64, memo string, preimage lntypes.Preimage, expiry time.Duration) (*Invoice, error)

	// CreateHodlInvoice creates a hodl invoice: the node only learns the
	// hash, and settlement requires a later SettleInvoice call revealing the
	// preimage.
	CreateHodlInvoice(ctx context.Context, amountSats uint64, memo string, hash lntypes.Hash, expiry time.Duration) (*Invoice, error)

	// PayInvoice pays a bolt11 payment request. A routing or liquidity
	// failure reported by the node is returned as a *PaymentError; transport
	// problems as a *TransportError.
	PayInvoice(ctx context.Context, paymentRequest string) (*PaymentResult, error)

	// SettleInvoice reveals the preimage for a held hodl invoice.
	SettleInvoice(ctx context.Context, preimage lntypes.Preimage) error

	// CancelInvoice cancels an open invoice. Canceling an already settled
	// invoice returns ErrInvoiceSettled.
	CancelInvoice(ctx context.Context, paymentHash lntypes.Hash) error

	// ListInvoices returns the node's invoices and their states.
	ListInvoices(ctx context.Context) ([]InvoiceStatus, error)

	// GetOnchainBalance returns the confirmed onchain balance in sats.
	GetOnchainBalance(ctx context.Context) (uint64, error)

	// GetChannelBalance returns the summed local and remote channel
	// balances in sats.
	GetChannelBalance(ctx context.Context) (local uint64, remote uint64, err error)

	// GetChannels returns the per-channel balance split.
	GetChannels(ctx context.Context) ([]ChannelBalance, error)
}
