package services

import (
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/types"
)

// Engine bundles the compensation services over one database handle. Its batch methods are
// what the scheduler and the admin endpoints call.
type Engine struct {
	Ledger *LedgerService
	Club   *ClubService
	Rank   *RankService
	EPin   *EPinService
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		Ledger: NewLedgerService(db),
		Club:   NewClubService(db),
		Rank:   NewRankService(db),
		EPin:   NewEPinService(db),
	}
}

func (e *Engine) RunMonthlyClubDistribution(cfg *config.CompensationConfig, period types.Period) (*RoyaltyResult, error) {
	return e.Club.DistributeMonthlyRoyalty(cfg, period, e.Ledger)
}

func (e *Engine) CheckAllMembersForRankUpgrade(cfg *config.CompensationConfig) (*RankBatchResult, error) {
	return e.Rank.CheckAllMembersForRankUpgrade(cfg)
}

func (e *Engine) UpdateAllClubStatuses(cfg *config.CompensationConfig) (*ClubBatchResult, error) {
	return e.Club.UpdateAllClubStatuses(cfg)
}

func (e *Engine) ProcessPendingBonuses() (*PayoutResult, error) {
	return e.Ledger.ProcessPendingBonuses()
}

func (e *Engine) GenerateMonthlyLeadershipRewards(period types.Period) (*LeadershipResult, error) {
	return e.Rank.GenerateMonthlyLeadershipRewards(period)
}
