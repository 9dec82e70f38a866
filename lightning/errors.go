package lightning

import (
	"errors"
	"fmt"
)

// ErrInvoiceSettled is returned when canceling an invoice the node has
// already settled. Callers treat this as a skip, not a failure.
var ErrInvoiceSettled = errors.New("invoice already settled")

// PaymentError is the node reporting that a payment could not be routed or
// funded. It is a normal outcome of a payment attempt and is never retried
// automatically.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// TransportError is a network-level failure talking to the node, including
// timeouts. It is retryable by the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError

	return errors.As(err, &te)
}

// IsPayment reports whether err is (or wraps) a PaymentError.
func IsPayment(err error) bool {
	var pe *PaymentError

	return errors.As(err, &pe)
}
