package daemon

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/40acres/lnswapd/database/models"
	"github.com/40acres/lnswapd/lightning"
)

// ExpireSweep moves every non-terminal swap past its expiry time to
// expired and drops its secret. Swaps with a pending settlement are left
// alone: their payment already went out and only revealing the preimage
// can finish them. Swaps currently being executed are skipped too.
// Running it twice is a no-op the second time; it returns how many swaps
// it expired.
func (o *Orchestrator) ExpireSweep(ctx context.Context) (int, error) {
	swaps, err := o.repository.ListSwaps(ctx, nil)
	if err != nil {
		return 0, err
	}

	now := o.now()
	expired := 0
	for i := range swaps {
		swap := &swaps[i]
		if swap.Status.IsTerminal() || !swap.IsExpired(now) {
			continue
		}
		if swap.Outcome != nil && *swap.Outcome == models.OutcomeSettlementPending {
			continue
		}
		if !o.tryAcquire(swap.SwapID) {
			continue
		}

		swap.Status = models.StatusExpired
		swap.SetOutcome(models.OutcomeExpired)
		o.dropSecret(swap.SwapID)
		saveErr := o.repository.SaveSwap(ctx, swap)
		o.release(swap.SwapID)
		if saveErr != nil {
			return expired, fmt.Errorf("failed to save swap %s: %w", swap.SwapID, saveErr)
		}
		log.WithField("id", swap.SwapID).Info("swap expired")
		expired++
	}

	return expired, nil
}

// NodeBalance is one node's funds at sweep time, for operator inspection.
type NodeBalance struct {
	Alias             string
	OnchainSats       uint64
	ChannelLocalSats  uint64
	ChannelRemoteSats uint64
}

// CheckBalances snapshots every configured node, in alias order.
func (o *Orchestrator) CheckBalances(ctx context.Context) ([]NodeBalance, error) {
	balances := make([]NodeBalance, 0, len(o.aliases))
	for _, alias := range o.aliases {
		snapshot, err := Capture(ctx, o.clients[alias])
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", alias, err)
		}
		balances = append(balances, NodeBalance{
			Alias:             alias,
			OnchainSats:       snapshot.OnchainSats,
			ChannelLocalSats:  snapshot.ChannelLocalSats,
			ChannelRemoteSats: snapshot.ChannelRemoteSats,
		})
	}

	return balances, nil
}

// CancelSummary counts what a CancelNodeInvoices run did.
type CancelSummary struct {
	Canceled int
	Skipped  int
	Failed   int
}

// CancelNodeInvoices cancels every cancelable invoice on a node. Settled
// invoices are skipped; individual cancel failures are counted and do not
// stop the run.
func (o *Orchestrator) CancelNodeInvoices(ctx context.Context, alias string) (CancelSummary, error) {
	client, err := o.client(alias)
	if err != nil {
		return CancelSummary{}, err
	}

	invoices, err := client.ListInvoices(ctx)
	if err != nil {
		return CancelSummary{}, fmt.Errorf("failed to list invoices on %s: %w", alias, err)
	}

	logger := log.WithField("node", alias)
	var summary CancelSummary
	for _, invoice := range invoices {
		switch invoice.State {
		case lightning.InvoiceSettled, lightning.InvoiceCanceled:
			summary.Skipped++

			continue
		}

		err := client.CancelInvoice(ctx, invoice.PaymentHash)
		switch {
		case errors.Is(err, lightning.ErrInvoiceSettled):
			summary.Skipped++
		case err != nil:
			logger.WithError(err).Warnf("failed to cancel invoice %s", invoice.PaymentHash)
			summary.Failed++
		default:
			summary.Canceled++
		}
	}

	logger.Infof("invoice sweep: %d canceled, %d skipped, %d failed",
		summary.Canceled, summary.Skipped, summary.Failed)

	return summary, nil
}
