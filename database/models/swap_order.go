package models

import (
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
)

// SwapOrder is the persistent record of one swap. The settlement secret is
// never part of the record: HashLock is always the SHA256 of it, and
// RevealedPreimage is only written once settlement makes the preimage
// public anyway.
type SwapOrder struct {
	ID               uint              `gorm:"primaryKey;autoIncrement" json:"-"`
	SwapID           string            `gorm:"uniqueIndex;not null" json:"swap_id"`
	FromNode         string            `gorm:"not null" json:"from_node"`
	ToNode           string            `gorm:"not null" json:"to_node"`
	AmountSats       uint64            `gorm:"not null" json:"amount_sats"`
	HashLock         *lntypes.Hash     `gorm:"serializer:hash" json:"hash_lock,omitempty"`
	RevealedPreimage *lntypes.Preimage `gorm:"serializer:preimage" json:"revealed_preimage,omitempty"`
	ExpiryTime       time.Time         `gorm:"not null" json:"expiry_time"`
	Status           SwapStatus        `gorm:"type:swap_status;not null" json:"status"`
	Outcome          *SwapOutcome      `gorm:"type:swap_outcome" json:"outcome,omitempty"`
	HodlInvoice      bool              `gorm:"not null" json:"hodl_invoice"`
	Invoice          string            `json:"invoice,omitempty"`
	PaymentHash      string            `json:"payment_hash,omitempty"`
	FeeSats          uint64            `json:"fee_sats"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SwapOrder) TableName() string {
	return "swap_orders"
}

// SetOutcome records an outcome without clobbering the pointer shared with
// previous reads.
func (s *SwapOrder) SetOutcome(outcome SwapOutcome) {
	s.Outcome = &outcome
}

// IsExpired reports whether the swap's expiry time is strictly in the past.
func (s *SwapOrder) IsExpired(now time.Time) bool {
	return now.After(s.ExpiryTime)
}
