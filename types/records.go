package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// IssuanceRecord describes a completed issuance.
type IssuanceRecord struct {
	ID        uuid.UUID      `json:"id"`
	User      common.Address `json:"user"`
	Amount    *uint256.Int   `json:"amount"`
	Timestamp time.Time      `json:"timestamp"`
}

// RedemptionRecord describes a completed redemption.
type RedemptionRecord struct {
	ID        uuid.UUID      `json:"id"`
	User      common.Address `json:"user"`
	Amount    *uint256.Int   `json:"amount"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewIssuanceRecord creates an IssuanceRecord with a fresh id.
func NewIssuanceRecord(user common.Address, amount *uint256.Int, at time.Time) IssuanceRecord {
	return IssuanceRecord{
		ID:        uuid.New(),
		User:      user,
		Amount:    new(uint256.Int).Set(amount),
		Timestamp: at,
	}
}

// NewRedemptionRecord creates a RedemptionRecord with a fresh id.
func NewRedemptionRecord(user common.Address, amount *uint256.Int, at time.Time) RedemptionRecord {
	return RedemptionRecord{
		ID:        uuid.New(),
		User:      user,
		Amount:    new(uint256.Int).Set(amount),
		Timestamp: at,
	}
}
