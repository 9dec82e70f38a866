package daemon

import (
	"errors"
	"fmt"

	"github.com/40acres/lnswapd/database"
)

var (
	// ErrUnknownNode means a swap references a node alias with no
	// configured client.
	ErrUnknownNode = errors.New("unknown node alias")

	// ErrSwapNotFound mirrors the store-level sentinel so callers only
	// need to match one error.
	ErrSwapNotFound = database.ErrSwapNotFound

	// ErrNotExecutable means the swap is not in a status that allows
	// execution.
	ErrNotExecutable = errors.New("swap is not executable")

	// ErrSwapBusy means another execution of the same swap is in flight.
	ErrSwapBusy = errors.New("swap execution already in progress")

	// ErrSwapExpired means the swap's expiry time has passed.
	ErrSwapExpired = errors.New("swap expired")
)

// VerificationMismatchError reports a disagreement between what a
// counterparty claims and what this daemon can verify independently: a
// bolt11 that doesn't match the record, a preimage that doesn't hash to the
// lock, or balance movements that don't match a reported success. It is
// surfaced, never auto-corrected.
type VerificationMismatchError struct {
	Reason   string
	Expected string
	Observed string
}

func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("verification mismatch: %s: expected %s, observed %s",
		e.Reason, e.Expected, e.Observed)
}

// IsVerificationMismatch reports whether err is (or wraps) a
// VerificationMismatchError.
func IsVerificationMismatch(err error) bool {
	var ve *VerificationMismatchError

	return errors.As(err, &ve)
}
