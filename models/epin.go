package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"

	"github.com/zsmartex/mlm/types"
)

type EPin struct {
	ID                int64            `json:"id" gorm:"primaryKey"`
	Code              string           `json:"code" gorm:"uniqueIndex"`
	Amount            decimal.Decimal  `json:"amount" gorm:"type:decimal(32,8)"`
	Fee               decimal.Decimal  `json:"fee" gorm:"type:decimal(32,8);default:0"`
	State             types.EPinState  `json:"state" gorm:"index"`
	Source            types.EPinSource `json:"source"`
	IssuerID          int64            `json:"issuer_id" gorm:"index"`
	ConsumerID        null.Int64       `json:"consumer_id"`
	ActivatedMemberID null.Int64       `json:"activated_member_id"`
	ExpiresAt         null.Time        `json:"expires_at"`
	UsedAt            null.Time        `json:"used_at"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (EPin) TableName() string {
	return "epins"
}

func (p *EPin) IsExpiredAt(now time.Time) bool {
	return p.ExpiresAt.Valid && !now.Before(p.ExpiresAt.Time)
}

// UsableAt reports whether the pin can still be consumed at now.
func (p *EPin) UsableAt(now time.Time) bool {
	return p.State == types.EPinStateAvailable && !p.IsExpiredAt(now)
}

func (p *EPin) Reference() Reference {
	return Reference{ID: p.ID, Type: ReferenceEPin}
}
