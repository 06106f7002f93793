package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"
)

type Rank struct {
	ID                     int64           `json:"id" gorm:"primaryKey"`
	Name                   string          `json:"name"`
	DisplayOrder           int             `json:"display_order" gorm:"uniqueIndex"`
	MinDirectReferrals     int64           `json:"min_direct_referrals"`
	MinTeamVolume          decimal.Decimal `json:"min_team_volume" gorm:"type:decimal(32,8)"`
	MinPersonalVolume      decimal.Decimal `json:"min_personal_volume" gorm:"type:decimal(32,8)"`
	OneTimeBonus           decimal.Decimal `json:"one_time_bonus" gorm:"type:decimal(32,8)"`
	MonthlyLeadershipBonus decimal.Decimal `json:"monthly_leadership_bonus" gorm:"type:decimal(32,8)"`
	IsActive               bool            `json:"is_active"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// MemberRank is a rank assignment. At most one row per member has IsCurrent set.
type MemberRank struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	MemberID         int64     `json:"member_id" gorm:"index"`
	RankID           int64     `json:"rank_id"`
	IsCurrent        bool      `json:"is_current" gorm:"index"`
	ManualAssignment bool      `json:"manual_assignment"`
	AchievedAt       time.Time `json:"achieved_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Rank Rank `json:"rank" gorm:"foreignKey:RankID"`
}

// RankAchievement exists once per (member, rank); its unique index is what stops a rank
// bonus from being issued twice.
type RankAchievement struct {
	ID                   int64           `json:"id" gorm:"primaryKey"`
	MemberID             int64           `json:"member_id" gorm:"uniqueIndex:idx_rank_achievements_member_rank"`
	RankID               int64           `json:"rank_id" gorm:"uniqueIndex:idx_rank_achievements_member_rank"`
	RankName             string          `json:"rank_name"`
	AchievedAt           time.Time       `json:"achieved_at"`
	DirectReferralsCount int64           `json:"direct_referrals_count"`
	TeamVolume           decimal.Decimal `json:"team_volume" gorm:"type:decimal(32,8)"`
	PersonalVolume       decimal.Decimal `json:"personal_volume" gorm:"type:decimal(32,8)"`
	OneTimeBonus         decimal.Decimal `json:"one_time_bonus" gorm:"type:decimal(32,8)"`
	BonusPaid            bool            `json:"bonus_paid"`
	BonusPaidAt          null.Time       `json:"bonus_paid_at"`
	ManualAssignment     bool            `json:"manual_assignment"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
