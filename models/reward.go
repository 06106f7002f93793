package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"

	"github.com/zsmartex/mlm/types"
)

const (
	ReferenceRank = "Rank"
	ReferenceClub = "ClubTier"
	ReferenceEPin = "EPin"
)

// Reward is a pending or paid payout. The unique key covers one-time rewards (period 0/0)
// and recurring ones (one row per period).
type Reward struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	MemberID      int64             `json:"member_id" gorm:"uniqueIndex:idx_rewards_key"`
	RewardType    types.RewardType  `json:"reward_type" gorm:"uniqueIndex:idx_rewards_key"`
	ReferenceType string            `json:"reference_type" gorm:"uniqueIndex:idx_rewards_key"`
	ReferenceID   int64             `json:"reference_id" gorm:"uniqueIndex:idx_rewards_key"`
	PeriodYear    int               `json:"period_year" gorm:"uniqueIndex:idx_rewards_key"`
	PeriodMonth   int               `json:"period_month" gorm:"uniqueIndex:idx_rewards_key"`
	Amount        decimal.Decimal   `json:"amount" gorm:"type:decimal(32,8)"`
	State         types.RewardState `json:"state" gorm:"index"`
	TransactionID null.String       `json:"transaction_id"`
	PaidAt        null.Time         `json:"paid_at"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (r *Reward) IsPending() bool {
	return r.State == types.RewardStatePending
}

func (r *Reward) Reference() Reference {
	return Reference{ID: r.ID, Type: "Reward"}
}

// ClubAchievement exists once per (member, tier).
type ClubAchievement struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	MemberID    int64           `json:"member_id" gorm:"uniqueIndex:idx_club_achievements_member_tier"`
	Tier        types.ClubTier  `json:"tier" gorm:"uniqueIndex:idx_club_achievements_member_tier"`
	TotalVolume decimal.Decimal `json:"total_volume" gorm:"type:decimal(32,8)"`
	AchievedAt  time.Time       `json:"achieved_at"`
	CreatedAt   time.Time       `json:"created_at"`
}
