package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/types"
)

var ErrLedgerImmutable = errors.New("ledger entries are append-only")

// LedgerEntry records one wallet mutation. Rows are written in the same transaction as the
// wallet change and never updated or removed afterwards.
type LedgerEntry struct {
	ID            int64                `json:"id" gorm:"primaryKey"`
	TransactionID string               `json:"transaction_id" gorm:"uniqueIndex"`
	MemberID      int64                `json:"member_id" gorm:"index"`
	WalletID      int64                `json:"wallet_id"`
	Kind          types.LedgerKind     `json:"kind"`
	Category      types.LedgerCategory `json:"category" gorm:"index"`
	Amount        decimal.Decimal      `json:"amount" gorm:"type:decimal(32,8)"`
	BalanceBefore decimal.Decimal      `json:"balance_before" gorm:"type:decimal(32,8)"`
	BalanceAfter  decimal.Decimal      `json:"balance_after" gorm:"type:decimal(32,8)"`
	ReferenceType string               `json:"reference_type"`
	ReferenceID   int64                `json:"reference_id"`
	Description   string               `json:"description"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

func (e *LedgerEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrLedgerImmutable
}
