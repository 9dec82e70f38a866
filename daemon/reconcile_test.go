package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelta(t *testing.T) {
	before := Snapshot{OnchainSats: 1000, ChannelLocalSats: 5000, ChannelRemoteSats: 2000}
	after := Snapshot{OnchainSats: 900, ChannelLocalSats: 7000, ChannelRemoteSats: 0}

	require.Equal(t, BalanceDelta{
		OnchainSats:       -100,
		ChannelLocalSats:  2000,
		ChannelRemoteSats: -2000,
	}, Delta(before, after))
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		sender   BalanceDelta
		receiver BalanceDelta
		amount   uint64
		fee      uint64
		ok       bool
	}{
		{
			name:     "exact movement",
			sender:   BalanceDelta{ChannelLocalSats: -5002},
			receiver: BalanceDelta{ChannelLocalSats: 5000},
			amount:   5000,
			fee:      2,
			ok:       true,
		},
		{
			name:     "free payment",
			sender:   BalanceDelta{ChannelLocalSats: -5000},
			receiver: BalanceDelta{ChannelLocalSats: 5000},
			amount:   5000,
			ok:       true,
		},
		{
			name:     "receiver never credited",
			sender:   BalanceDelta{ChannelLocalSats: -5000},
			receiver: BalanceDelta{},
			amount:   5000,
		},
		{
			name:     "sender debited the wrong amount",
			sender:   BalanceDelta{ChannelLocalSats: -4000},
			receiver: BalanceDelta{ChannelLocalSats: 5000},
			amount:   5000,
		},
		{
			name:     "fees unaccounted",
			sender:   BalanceDelta{ChannelLocalSats: -5000},
			receiver: BalanceDelta{ChannelLocalSats: 5000},
			amount:   5000,
			fee:      2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Reconcile(tt.sender, tt.receiver, tt.amount, tt.fee)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.True(t, IsVerificationMismatch(err))
			}
		})
	}
}
