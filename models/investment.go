package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a business activity record. Only ACTIVE and COMPLETED rows count toward
// volume; its own lifecycle lives outside this service.
type Investment struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	MemberID  int64           `json:"member_id" gorm:"index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(32,8)"`
	BV        decimal.Decimal `json:"bv" gorm:"column:bv;type:decimal(32,8);default:0"`
	State     string          `json:"state" gorm:"index"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`
}
