package lightning

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/lntypes"
)

// ValidatePreimage validates that a preimage matches a payment hash
func ValidatePreimage(preimage lntypes.Preimage, paymentHash lntypes.Hash) error {
	if !preimage.Matches(paymentHash) {
		return errors.New("preimage does not match payment hash")
	}

	return nil
}

// PreimageFromBase64 decodes a base64-encoded preimage as returned by the
// node's REST interface.
func PreimageFromBase64(s string) (lntypes.Preimage, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return lntypes.Preimage{}, fmt.Errorf("preimage is not valid base64: %w", err)
	}

	preimage, err := lntypes.MakePreimage(raw)
	if err != nil {
		return lntypes.Preimage{}, fmt.Errorf("invalid preimage: %w", err)
	}

	return preimage, nil
}

// HashFromBase64 decodes a base64-encoded payment hash as returned by the
// node's REST interface.
func HashFromBase64(s string) (lntypes.Hash, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return lntypes.Hash{}, fmt.Errorf("payment hash is not valid base64: %w", err)
	}

	hash, err := lntypes.MakeHash(raw)
	if err != nil {
		return lntypes.Hash{}, fmt.Errorf("invalid payment hash: %w", err)
	}

	return hash, nil
}
