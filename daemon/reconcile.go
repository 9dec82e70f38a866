package daemon

import (
	"context"
	"fmt"

	"github.com/40acres/lnswapd/lightning"
)

// Snapshot is a point-in-time view of a node's funds, in sats.
type Snapshot struct {
	OnchainSats       uint64
	ChannelLocalSats  uint64
	ChannelRemoteSats uint64
}

// Capture reads a node's balances for later reconciliation.
func Capture(ctx context.Context, client lightning.Client) (Snapshot, error) {
	onchain, err := client.GetOnchainBalance(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to capture onchain balance: %w", err)
	}

	local, remote, err := client.GetChannelBalance(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to capture channel balance: %w", err)
	}

	return Snapshot{
		OnchainSats:       onchain,
		ChannelLocalSats:  local,
		ChannelRemoteSats: remote,
	}, nil
}

// BalanceDelta is the signed movement between two snapshots of one node.
type BalanceDelta struct {
	OnchainSats       int64
	ChannelLocalSats  int64
	ChannelRemoteSats int64
}

func (d BalanceDelta) String() string {
	return fmt.Sprintf("onchain %+d, channel local %+d, channel remote %+d",
		d.OnchainSats, d.ChannelLocalSats, d.ChannelRemoteSats)
}

// Delta computes after minus before.
func Delta(before, after Snapshot) BalanceDelta {
	return BalanceDelta{
		OnchainSats:       int64(after.OnchainSats) - int64(before.OnchainSats),
		ChannelLocalSats:  int64(after.ChannelLocalSats) - int64(before.ChannelLocalSats),
		ChannelRemoteSats: int64(after.ChannelRemoteSats) - int64(before.ChannelRemoteSats),
	}
}

// Reconcile verifies that the observed fund movements match a reported
// payment of amountSats with feeSats routing fees: the receiver's local
// balance must grow by the amount and the sender's must shrink by amount
// plus fees. Node reports are not trusted on their own; a success claim
// with no matching movement is a mismatch.
func Reconcile(sender, receiver BalanceDelta, amountSats, feeSats uint64) error {
	expectedReceiver := int64(amountSats)
	expectedSender := -int64(amountSats + feeSats)

	if receiver.ChannelLocalSats != expectedReceiver {
		return &VerificationMismatchError{
			Reason:   "receiver balance did not move with reported payment success",
			Expected: fmt.Sprintf("channel local %+d", expectedReceiver),
			Observed: fmt.Sprintf("sender: %s; receiver: %s", sender, receiver),
		}
	}

	if sender.ChannelLocalSats != expectedSender {
		return &VerificationMismatchError{
			Reason:   "sender balance did not move with reported payment success",
			Expected: fmt.Sprintf("channel local %+d", expectedSender),
			Observed: fmt.Sprintf("sender: %s; receiver: %s", sender, receiver),
		}
	}

	return nil
}
