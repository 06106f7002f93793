package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zsmartex/mlm/models/datatypes"
	"github.com/zsmartex/mlm/types"
)

type ClubStatus struct {
	Tier         types.ClubTier        `json:"tier"`
	Qualified    bool                  `json:"qualified"`
	TotalVolume  decimal.Decimal       `json:"total_volume"`
	Legs         []datatypes.LegVolume `json:"legs"`
	NextTier     types.ClubTier        `json:"next_tier,omitempty"`
	NextCutoff   *decimal.Decimal      `json:"next_cutoff,omitempty"`
	EvaluatedAt  *time.Time            `json:"evaluated_at,omitempty"`
	StoredTier   types.ClubTier        `json:"stored_tier"`
	Achievements []ClubAchievement     `json:"achievements"`
}

type ClubAchievement struct {
	Tier       types.ClubTier  `json:"tier"`
	Volume     decimal.Decimal `json:"volume"`
	AchievedAt time.Time       `json:"achieved_at"`
}
