package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zsmartex/mlm/types"
)

type EPin struct {
	ID          int64            `json:"id"`
	Code        string           `json:"code"`
	Amount      decimal.Decimal  `json:"amount"`
	Fee         decimal.Decimal  `json:"fee"`
	State       types.EPinState  `json:"state"`
	Source      types.EPinSource `json:"source"`
	ActivatedBy *int64           `json:"activated_by,omitempty"`
	ActivatedTo *int64           `json:"activated_to,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	UsedAt      *time.Time       `json:"used_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type EPinVerification struct {
	Valid     bool            `json:"valid"`
	Reason    string          `json:"reason,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	State     types.EPinState `json:"state"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}
