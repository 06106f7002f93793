package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zsmartex/mlm/types"
)

type LedgerEntry struct {
	ID            int64                `json:"id"`
	TransactionID string               `json:"transaction_id"`
	Kind          types.LedgerKind     `json:"kind"`
	Category      types.LedgerCategory `json:"category"`
	Amount        decimal.Decimal      `json:"amount"`
	BalanceBefore decimal.Decimal      `json:"balance_before"`
	BalanceAfter  decimal.Decimal      `json:"balance_after"`
	Description   string               `json:"description"`
	CreatedAt     time.Time            `json:"created_at"`
}
