package models

import (
	"database/sql/driver"
	"fmt"
)

type SwapOutcome string

const (
	OutcomeSuccess           SwapOutcome = "SUCCESS"
	OutcomePaymentFailed     SwapOutcome = "PAYMENT_FAILED"
	OutcomeInvoiceFailed     SwapOutcome = "INVOICE_FAILED"
	OutcomeExpired           SwapOutcome = "EXPIRED"
	OutcomeSettlementPending SwapOutcome = "SETTLEMENT_PENDING"
	OutcomeBalanceMismatch   SwapOutcome = "BALANCE_MISMATCH"
)

func (o SwapOutcome) String() string {
	return string(o)
}

func (o SwapOutcome) IsValid() bool {
	switch o {
	case OutcomeSuccess, OutcomePaymentFailed, OutcomeInvoiceFailed,
		OutcomeExpired, OutcomeSettlementPending, OutcomeBalanceMismatch:
		return true
	}

	return false
}

func (o *SwapOutcome) Scan(value interface{}) error {
	if value == nil {
		*o = ""

		return nil
	}

	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("failed to scan SwapOutcome: expected string, got %T", value)
	}
	*o = SwapOutcome(str)

	return nil
}

func (o SwapOutcome) Value() (driver.Value, error) {
	if o == "" {
		return nil, nil
	}

	return string(o), nil
}

func CreateSwapOutcomeEnumSQL() string {
	return `CREATE TYPE "public"."swap_outcome" AS ENUM (
		'SUCCESS',
		'PAYMENT_FAILED',
		'INVOICE_FAILED',
		'EXPIRED',
		'SETTLEMENT_PENDING',
		'BALANCE_MISMATCH'
	);
	`
}

func DropSwapOutcomeEnumSQL() string {
	return `DROP TYPE IF EXISTS "public"."swap_outcome";`
}
