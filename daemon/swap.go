package daemon

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/40acres/lnswapd/crypto"
	"github.com/40acres/lnswapd/database/models"
	"github.com/40acres/lnswapd/lightning"
)

// DefaultSwapExpiry bounds a swap's lifetime when the caller does not.
const DefaultSwapExpiry = 30 * time.Minute

// ExecutionResult is the outcome of one ExecuteSwap run. Success reflects
// the payment outcome; a failed payment is a result, not an error.
type ExecutionResult struct {
	Swap          *models.SwapOrder
	Success       bool
	SenderDelta   BalanceDelta
	ReceiverDelta BalanceDelta
}

// CreateSwap generates a settlement secret, requests an invoice on the
// receiving node locked to its hash, and persists the swap record. The
// record is saved and returned whether or not the invoice request worked;
// only store failures error.
func (o *Orchestrator) CreateSwap(ctx context.Context, fromNode, toNode string, amountSats uint64, expiry time.Duration, hodl bool) (*models.SwapOrder, error) {
	if _, err := o.client(fromNode); err != nil {
		return nil, err
	}
	receiver, err := o.client(toNode)
	if err != nil {
		return nil, err
	}
	if amountSats == 0 {
		return nil, fmt.Errorf("swap amount must be positive")
	}
	if expiry <= 0 {
		expiry = DefaultSwapExpiry
	}

	preimage, hash, err := crypto.NewPreimage()
	if err != nil {
		return nil, fmt.Errorf("failed to generate swap secret: %w", err)
	}

	swapID, err := o.newSwapID()
	if err != nil {
		return nil, err
	}
	logger := log.WithField("id", swapID)

	now := o.now()
	swap := &models.SwapOrder{
		SwapID:      swapID,
		FromNode:    fromNode,
		ToNode:      toNode,
		AmountSats:  amountSats,
		HashLock:    &hash,
		ExpiryTime:  now.Add(expiry),
		Status:      models.StatusPending,
		HodlInvoice: hodl,
		CreatedAt:   now,
	}
	if err := o.secrets.Put(swapID, preimage); err != nil {
		return nil, fmt.Errorf("failed to store swap secret: %w", err)
	}

	memo := fmt.Sprintf("swap %s -> %s", fromNode, toNode)
	var invoice *lightning.Invoice
	if hodl {
		invoice, err = receiver.CreateHodlInvoice(ctx, amountSats, memo, hash, expiry)
	} else {
		invoice, err = receiver.CreateInvoice(ctx, amountSats, memo, preimage, expiry)
	}
	if err != nil {
		logger.WithError(err).Error("invoice creation failed")
		swap.Status = models.StatusFailed
		swap.SetOutcome(models.OutcomeInvoiceFailed)
		o.dropSecret(swapID)
		if saveErr := o.repository.SaveSwap(ctx, swap); saveErr != nil {
			return nil, fmt.Errorf("failed to save swap: %w", saveErr)
		}

		return swap, nil
	}

	swap.Status = models.StatusExecuting
	swap.Invoice = invoice.PaymentRequest
	swap.PaymentHash = invoice.PaymentHash.String()
	if err := o.repository.SaveSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to save swap: %w", err)
	}
	logger.Infof("swap created: %d sats %s -> %s", amountSats, fromNode, toNode)

	return swap, nil
}

// ExecuteSwap pays the swap invoice from the sending node and verifies the
// settlement independently: the revealed preimage must hash to the stored
// lock and the nodes' balances must move by the swap amount. At most one
// execution per swap id runs at a time.
func (o *Orchestrator) ExecuteSwap(ctx context.Context, swapID string) (*ExecutionResult, error) {
	if !o.tryAcquire(swapID) {
		return nil, fmt.Errorf("%w: %s", ErrSwapBusy, swapID)
	}
	defer o.release(swapID)

	logger := log.WithField("id", swapID)

	swap, err := o.repository.GetSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if swap.Status != models.StatusExecuting {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotExecutable, swapID, swap.Status)
	}

	// A previous run already paid but could not settle the hodl invoice.
	// Resume at settlement instead of paying twice; the payment is out,
	// so expiry no longer applies.
	if swap.Outcome != nil && *swap.Outcome == models.OutcomeSettlementPending {
		return o.resumeSettlement(ctx, swap)
	}

	if swap.IsExpired(o.now()) {
		swap.Status = models.StatusExpired
		swap.SetOutcome(models.OutcomeExpired)
		o.dropSecret(swapID)
		if saveErr := o.repository.SaveSwap(ctx, swap); saveErr != nil {
			return nil, fmt.Errorf("failed to save swap: %w", saveErr)
		}

		return nil, fmt.Errorf("%w: %s", ErrSwapExpired, swapID)
	}

	if err := o.verifyInvoice(swap); err != nil {
		return nil, err
	}

	sender, err := o.client(swap.FromNode)
	if err != nil {
		return nil, err
	}
	receiver, err := o.client(swap.ToNode)
	if err != nil {
		return nil, err
	}

	senderBefore, err := Capture(ctx, sender)
	if err != nil {
		return nil, err
	}
	receiverBefore, err := Capture(ctx, receiver)
	if err != nil {
		return nil, err
	}

	logger.Infof("paying %d sats from %s", swap.AmountSats, swap.FromNode)
	payment, err := sender.PayInvoice(ctx, swap.Invoice)
	if lightning.IsPayment(err) {
		logger.WithError(err).Warn("payment failed")
		swap.Status = models.StatusFailed
		swap.SetOutcome(models.OutcomePaymentFailed)
		o.dropSecret(swapID)
		if saveErr := o.repository.SaveSwap(ctx, swap); saveErr != nil {
			return nil, fmt.Errorf("failed to save swap: %w", saveErr)
		}

		return &ExecutionResult{Swap: swap, Success: false}, nil
	}
	if err != nil {
		// Transport trouble: the payment may or may not have gone out.
		// The swap stays executing so a later run can re-check.
		return nil, fmt.Errorf("failed to pay invoice: %w", err)
	}

	if !payment.Preimage.Matches(*swap.HashLock) {
		return nil, &VerificationMismatchError{
			Reason:   "returned preimage does not hash to the stored lock",
			Expected: swap.HashLock.String(),
			Observed: payment.Preimage.Hash().String(),
		}
	}
	swap.FeeSats = payment.FeeSats

	if swap.HodlInvoice {
		if err := o.settleHodl(ctx, swap); err != nil {
			logger.WithError(err).Error("settlement failed, payment already sent")
			swap.SetOutcome(models.OutcomeSettlementPending)
			if saveErr := o.repository.SaveSwap(ctx, swap); saveErr != nil {
				return nil, fmt.Errorf("failed to save swap: %w", saveErr)
			}

			return nil, fmt.Errorf("failed to settle invoice: %w", err)
		}
	}

	senderAfter, err := Capture(ctx, sender)
	if err != nil {
		return nil, err
	}
	receiverAfter, err := Capture(ctx, receiver)
	if err != nil {
		return nil, err
	}

	result := &ExecutionResult{
		Swap:          swap,
		Success:       true,
		SenderDelta:   Delta(senderBefore, senderAfter),
		ReceiverDelta: Delta(receiverBefore, receiverAfter),
	}

	revealed := payment.Preimage
	swap.Status = models.StatusCompleted
	swap.RevealedPreimage = &revealed

	if err := Reconcile(result.SenderDelta, result.ReceiverDelta, swap.AmountSats, swap.FeeSats); err != nil {
		logger.WithError(err).Error("balance reconciliation failed")
		swap.SetOutcome(models.OutcomeBalanceMismatch)
		if saveErr := o.repository.SaveSwap(ctx, swap); saveErr != nil {
			return nil, fmt.Errorf("failed to save swap: %w", saveErr)
		}
		o.dropSecret(swapID)

		return result, err
	}

	swap.SetOutcome(models.OutcomeSuccess)
	if err := o.repository.SaveSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to save swap: %w", err)
	}
	o.dropSecret(swapID)
	logger.Info("swap completed")

	return result, nil
}

// verifyInvoice cross-checks the stored invoice against the swap record
// before paying anything.
func (o *Orchestrator) verifyInvoice(swap *models.SwapOrder) error {
	invoice, err := o.decode(swap.Invoice)
	if err != nil {
		return fmt.Errorf("failed to decode invoice: %w", err)
	}

	invoiceSats := uint64(invoice.MSatoshi / 1000)
	if invoiceSats != swap.AmountSats {
		return &VerificationMismatchError{
			Reason:   "invoice amount disagrees with swap record",
			Expected: fmt.Sprintf("%d sats", swap.AmountSats),
			Observed: fmt.Sprintf("%d sats", invoiceSats),
		}
	}

	if invoice.PaymentHash != swap.PaymentHash {
		return &VerificationMismatchError{
			Reason:   "invoice payment hash disagrees with swap record",
			Expected: swap.PaymentHash,
			Observed: invoice.PaymentHash,
		}
	}

	return nil
}

func (o *Orchestrator) settleHodl(ctx context.Context, swap *models.SwapOrder) error {
	preimage, ok, err := o.secrets.Get(swap.SwapID)
	if err != nil {
		return fmt.Errorf("failed to read swap secret: %w", err)
	}
	if !ok {
		return fmt.Errorf("settlement secret for %s is gone", swap.SwapID)
	}

	receiver, err := o.client(swap.ToNode)
	if err != nil {
		return err
	}

	return receiver.SettleInvoice(ctx, preimage)
}

// resumeSettlement finishes a hodl swap whose payment went out but whose
// settlement previously failed.
func (o *Orchestrator) resumeSettlement(ctx context.Context, swap *models.SwapOrder) (*ExecutionResult, error) {
	logger := log.WithField("id", swap.SwapID)
	logger.Info("resuming pending settlement")

	preimage, ok, err := o.secrets.Get(swap.SwapID)
	if err != nil {
		return nil, fmt.Errorf("failed to read swap secret: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("settlement secret for %s is gone", swap.SwapID)
	}

	if err := o.settleHodl(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to settle invoice: %w", err)
	}

	swap.Status = models.StatusCompleted
	swap.RevealedPreimage = &preimage
	swap.SetOutcome(models.OutcomeSuccess)
	if err := o.repository.SaveSwap(ctx, swap); err != nil {
		return nil, fmt.Errorf("failed to save swap: %w", err)
	}
	o.dropSecret(swap.SwapID)
	logger.Info("swap completed")

	return &ExecutionResult{Swap: swap, Success: true}, nil
}
