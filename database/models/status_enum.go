package models

import (
	"database/sql/driver"
	"fmt"
)

type SwapStatus string

const (
	StatusPending   SwapStatus = "pending"
	StatusExecuting SwapStatus = "executing"
	StatusCompleted SwapStatus = "completed"
	StatusFailed    SwapStatus = "failed"
	StatusExpired   SwapStatus = "expired"
)

func (s SwapStatus) String() string {
	return string(s)
}

func (s SwapStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusExecuting, StatusCompleted, StatusFailed, StatusExpired:
		return true
	}

	return false
}

// IsTerminal reports whether a swap in this status can never move again.
func (s SwapStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusExpired:
		return true
	}

	return false
}

// CanTransitionTo enforces the forward-only lifecycle: pending may start
// executing or expire, executing may finish either way or expire, and
// terminal statuses never move.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	if s == next {
		return true
	}

	switch s {
	case StatusPending:
		return next == StatusExecuting || next == StatusExpired
	case StatusExecuting:
		return next == StatusCompleted || next == StatusFailed || next == StatusExpired
	}

	return false
}

func (s *SwapStatus) Scan(value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("failed to scan SwapStatus: expected string, got %T", value)
	}
	*s = SwapStatus(str)

	return nil
}

func (s SwapStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func CreateSwapStatusEnumSQL() string {
	return `CREATE TYPE "public"."swap_status" AS ENUM (
		'pending',
		'executing',
		'completed',
		'failed',
		'expired'
	);
	`
}

func DropSwapStatusEnumSQL() string {
	return `DROP TYPE IF EXISTS "public"."swap_status";`
}
