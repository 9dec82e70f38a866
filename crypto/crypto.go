package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/lightningnetwork/lnd/lntypes"
)

// NewPreimage generates a random 32-byte HTLC preimage and its SHA256 hash
// lock from a cryptographically secure random source. Uniqueness relies on
// 256 bits of entropy, not on external bookkeeping.
func NewPreimage() (lntypes.Preimage, lntypes.Hash, error) {
	var buf [lntypes.PreimageSize]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return lntypes.Preimage{}, lntypes.Hash{}, fmt.Errorf("failed to read random bytes: %w", err)
	}

	preimage, err := lntypes.MakePreimage(buf[:])
	if err != nil {
		return lntypes.Preimage{}, lntypes.Hash{}, fmt.Errorf("failed to build preimage: %w", err)
	}

	return preimage, preimage.Hash(), nil
}
