package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

type RankMetrics struct {
	DirectReferrals int64           `json:"direct_referrals"`
	TeamVolume      decimal.Decimal `json:"team_volume"`
	PersonalVolume  decimal.Decimal `json:"personal_volume"`
}

type RankQualification struct {
	Rank      *models.Rank `json:"rank"`
	Metrics   RankMetrics  `json:"metrics"`
	Qualified bool         `json:"qualified"`
	Missing   RankMetrics  `json:"missing"`
}

type RankService struct {
	db *gorm.DB
}

func NewRankService(db *gorm.DB) *RankService {
	return &RankService{db: db}
}

func (s *RankService) volumes(cfg *config.CompensationConfig) *VolumeAggregator {
	return NewVolumeAggregator(s.db, NewMemberGraph(s.db, cfg.MaxTreeNodes))
}

func memberMetrics(volumes *VolumeAggregator, member_id int64) (RankMetrics, error) {
	direct, err := volumes.Graph().DirectActiveCount(member_id)
	if err != nil {
		return RankMetrics{}, err
	}

	team, err := volumes.TeamVolume(member_id)
	if err != nil {
		return RankMetrics{}, err
	}

	personal, err := volumes.PersonalVolume(member_id)
	if err != nil {
		return RankMetrics{}, err
	}

	return RankMetrics{DirectReferrals: direct, TeamVolume: team, PersonalVolume: personal}, nil
}

func qualify(rank *models.Rank, metrics RankMetrics) *RankQualification {
	q := &RankQualification{
		Rank:    rank,
		Metrics: metrics,
		Missing: RankMetrics{TeamVolume: decimal.Zero, PersonalVolume: decimal.Zero},
	}

	if metrics.DirectReferrals < rank.MinDirectReferrals {
		q.Missing.DirectReferrals = rank.MinDirectReferrals - metrics.DirectReferrals
	}
	if metrics.TeamVolume.LessThan(rank.MinTeamVolume) {
		q.Missing.TeamVolume = rank.MinTeamVolume.Sub(metrics.TeamVolume)
	}
	if metrics.PersonalVolume.LessThan(rank.MinPersonalVolume) {
		q.Missing.PersonalVolume = rank.MinPersonalVolume.Sub(metrics.PersonalVolume)
	}

	q.Qualified = q.Missing.DirectReferrals == 0 && q.Missing.TeamVolume.IsZero() && q.Missing.PersonalVolume.IsZero()

	return q
}

// CheckRankQualification reports how far the member is from rank.
func (s *RankService) CheckRankQualification(cfg *config.CompensationConfig, member_id, rank_id int64) (*RankQualification, error) {
	if _, err := findMember(s.db, member_id); err != nil {
		return nil, err
	}

	rank, err := s.findRank(rank_id)
	if err != nil {
		return nil, err
	}

	metrics, err := memberMetrics(s.volumes(cfg), member_id)
	if err != nil {
		return nil, err
	}

	return qualify(rank, metrics), nil
}

// CurrentRank returns the current assignment of the member with its rank, nil when the member
// holds no rank yet.
func (s *RankService) CurrentRank(member_id int64) (*models.MemberRank, error) {
	return currentRank(s.db, member_id)
}

func currentRank(tx *gorm.DB, member_id int64) (*models.MemberRank, error) {
	var current *models.MemberRank

	err := tx.Preload("Rank").Where("member_id = ? AND is_current = ?", member_id, true).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return current, nil
}

func currentOrder(tx *gorm.DB, member_id int64) (int, error) {
	current, err := currentRank(tx, member_id)
	if err != nil || current == nil {
		return 0, err
	}

	return current.Rank.DisplayOrder, nil
}

func (s *RankService) ListRanks() ([]*models.Rank, error) {
	var ranks []*models.Rank

	err := s.db.Where("is_active = ?", true).Order("display_order asc").Find(&ranks).Error

	return ranks, err
}

type RankProgress struct {
	Current *models.MemberRank `json:"current"`
	Next    *RankQualification `json:"next"`
}

// RankProgress returns the current rank of the member and the qualification of the next rung.
func (s *RankService) RankProgress(cfg *config.CompensationConfig, member_id int64) (*RankProgress, error) {
	if _, err := findMember(s.db, member_id); err != nil {
		return nil, err
	}

	current, err := s.CurrentRank(member_id)
	if err != nil {
		return nil, err
	}

	progress := &RankProgress{Current: current}

	order := 0
	if current != nil {
		order = current.Rank.DisplayOrder
	}

	var next *models.Rank
	if err := s.db.Where("is_active = ? AND display_order > ?", true, order).Order("display_order asc").First(&next).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return progress, nil
	} else if err != nil {
		return nil, err
	}

	metrics, err := memberMetrics(s.volumes(cfg), member_id)
	if err != nil {
		return nil, err
	}

	progress.Next = qualify(next, metrics)

	return progress, nil
}

// CheckAndAwardRanks walks the active ranks above the member's current one in display order
// and awards every rung the member qualifies for, stopping at the first one it does not.
// It returns the highest rank awarded in this pass, or nil.
func (s *RankService) CheckAndAwardRanks(cfg *config.CompensationConfig, member_id int64) (*models.Rank, error) {
	member, err := findMember(s.db, member_id)
	if err != nil {
		return nil, err
	}

	if member.Status == types.MemberStatusSuspended {
		return nil, ErrMemberSuspended
	}

	return s.checkAndAwardRanks(s.volumes(cfg), member_id)
}

func (s *RankService) checkAndAwardRanks(volumes *VolumeAggregator, member_id int64) (*models.Rank, error) {
	order, err := currentOrder(s.db, member_id)
	if err != nil {
		return nil, err
	}

	var ranks []*models.Rank
	if err := s.db.Where("is_active = ? AND display_order > ?", true, order).Order("display_order asc").Find(&ranks).Error; err != nil {
		return nil, err
	}

	if len(ranks) == 0 {
		return nil, nil
	}

	metrics, err := memberMetrics(volumes, member_id)
	if err != nil {
		return nil, err
	}

	var awarded *models.Rank
	for _, rank := range ranks {
		if !qualify(rank, metrics).Qualified {
			break
		}

		ok, err := s.awardRank(member_id, rank, metrics, false)
		if err != nil {
			return awarded, err
		}

		if ok {
			awarded = rank
		}
	}

	return awarded, nil
}

// awardRank makes rank the current rank of the member, records the achievement and queues the
// one-time bonus. It reports false when the achievement already exists.
func (s *RankService) awardRank(member_id int64, rank *models.Rank, metrics RankMetrics, manual bool) (bool, error) {
	awarded := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := models.Lock(tx).Select("id").First(&models.Member{}, member_id).Error; err != nil {
			return err
		}

		order, err := currentOrder(tx, member_id)
		if err != nil {
			return err
		}

		if order >= rank.DisplayOrder {
			if !manual {
				return nil
			} else if order == rank.DisplayOrder {
				return ErrRankAlreadyAchieved
			}
			return ErrRankDowngrade
		}

		now := time.Now().UTC()

		achievement := &models.RankAchievement{
			MemberID:             member_id,
			RankID:               rank.ID,
			RankName:             rank.Name,
			AchievedAt:           now,
			DirectReferralsCount: metrics.DirectReferrals,
			TeamVolume:           metrics.TeamVolume,
			PersonalVolume:       metrics.PersonalVolume,
			OneTimeBonus:         rank.OneTimeBonus,
			ManualAssignment:     manual,
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(achievement)
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			if manual {
				return ErrRankAlreadyAchieved
			}
			return nil
		}

		if err := tx.Model(&models.MemberRank{}).
			Where("member_id = ? AND is_current = ?", member_id, true).
			Update("is_current", false).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.MemberRank{
			MemberID:         member_id,
			RankID:           rank.ID,
			IsCurrent:        true,
			ManualAssignment: manual,
			AchievedAt:       now,
		}).Error; err != nil {
			return err
		}

		if rank.OneTimeBonus.IsPositive() {
			if err := tx.Create(&models.Reward{
				MemberID:      member_id,
				RewardType:    types.RewardTypeOneTimeBonus,
				ReferenceType: models.ReferenceRank,
				ReferenceID:   rank.ID,
				Amount:        rank.OneTimeBonus,
				State:         types.RewardStatePending,
				Notes:         fmt.Sprintf("%s rank achievement bonus", rank.Name),
			}).Error; err != nil {
				return err
			}
		}

		awarded = true

		return nil
	})

	if err != nil {
		return false, err
	}

	if awarded {
		config.Logger.Infof("[rank] member %d achieved %s (manual: %t)", member_id, rank.Name, manual)
	}

	return awarded, nil
}

// Achievements lists the ranks the member has reached, lowest first.
func (s *RankService) Achievements(member_id int64) ([]*models.RankAchievement, error) {
	var achievements []*models.RankAchievement

	err := s.db.Where("member_id = ?", member_id).Order("achieved_at asc, id asc").Find(&achievements).Error

	return achievements, err
}

type RankBatchResult struct {
	Checked int      `json:"checked"`
	Awarded int      `json:"awarded"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// CheckAllMembersForRankUpgrade runs the ladder walk for every ACTIVE member. A failing member
// is logged and counted, the run continues with the next one.
func (s *RankService) CheckAllMembersForRankUpgrade(cfg *config.CompensationConfig) (*RankBatchResult, error) {
	ids, err := models.ActiveMemberIDs(s.db)
	if err != nil {
		return nil, err
	}

	volumes := s.volumes(cfg)
	result := &RankBatchResult{}

	for _, id := range ids {
		result.Checked++

		rank, err := s.checkAndAwardRanks(volumes, id)
		if err != nil {
			config.Logger.Errorf("[rank] failed to check member %d: %v", id, err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("member %d: %v", id, err))
			continue
		}

		if rank != nil {
			result.Awarded++
		}
	}

	return result, nil
}

// AssignRankManually lets an administrator move a member up to rank regardless of thresholds.
func (s *RankService) AssignRankManually(cfg *config.CompensationConfig, member_id, rank_id int64) (*models.MemberRank, error) {
	if _, err := findMember(s.db, member_id); err != nil {
		return nil, err
	}

	rank, err := s.findRank(rank_id)
	if err != nil {
		return nil, err
	}

	metrics, err := memberMetrics(s.volumes(cfg), member_id)
	if err != nil {
		return nil, err
	}

	if _, err := s.awardRank(member_id, rank, metrics, true); err != nil {
		return nil, err
	}

	return s.CurrentRank(member_id)
}

type LeadershipResult struct {
	Period      types.Period    `json:"period"`
	Checked     int             `json:"checked"`
	Created     int             `json:"created"`
	Skipped     int             `json:"skipped"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// GenerateMonthlyLeadershipRewards queues the monthly leadership bonus of every ACTIVE member's
// current rank for period. Running it again for the same period creates nothing.
func (s *RankService) GenerateMonthlyLeadershipRewards(period types.Period) (*LeadershipResult, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	var assignments []*models.MemberRank
	if err := s.db.
		Preload("Rank").
		Where("is_current = ? AND member_id IN (?)", true, s.db.Model(&models.Member{}).Select("id").Where("status = ?", types.MemberStatusActive)).
		Order("member_id asc").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	result := &LeadershipResult{Period: period, TotalAmount: decimal.Zero}

	for _, assignment := range assignments {
		result.Checked++

		rank := assignment.Rank
		if !rank.IsActive || !rank.MonthlyLeadershipBonus.IsPositive() {
			continue
		}

		created := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reward{
			MemberID:      assignment.MemberID,
			RewardType:    types.RewardTypeMonthlyLeadership,
			ReferenceType: models.ReferenceRank,
			ReferenceID:   rank.ID,
			PeriodYear:    period.Year,
			PeriodMonth:   period.Month,
			Amount:        rank.MonthlyLeadershipBonus,
			State:         types.RewardStatePending,
			Notes:         fmt.Sprintf("%s monthly leadership bonus for %s", rank.Name, period),
		})
		if created.Error != nil {
			config.Logger.Errorf("[rank] failed to create leadership reward for member %d: %v", assignment.MemberID, created.Error)
			result.Skipped++
			continue
		} else if created.RowsAffected == 0 {
			result.Skipped++
			continue
		}

		result.Created++
		result.TotalAmount = result.TotalAmount.Add(rank.MonthlyLeadershipBonus)
	}

	return result, nil
}

// SeedRanks upserts the rank table from cfg, matching rows on display order.
func (s *RankService) SeedRanks(cfg *config.CompensationConfig) (int, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range cfg.Ranks {
			rank := &models.Rank{
				Name:                   seed.Name,
				DisplayOrder:           seed.DisplayOrder,
				MinDirectReferrals:     seed.MinDirectReferrals,
				MinTeamVolume:          seed.MinTeamVolume,
				MinPersonalVolume:      seed.MinPersonalVolume,
				OneTimeBonus:           seed.OneTimeBonus,
				MonthlyLeadershipBonus: seed.MonthlyLeadershipBonus,
				IsActive:               true,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "display_order"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "min_direct_referrals", "min_team_volume", "min_personal_volume",
					"one_time_bonus", "monthly_leadership_bonus", "is_active", "updated_at",
				}),
			}).Create(rank).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return len(cfg.Ranks), nil
}

func (s *RankService) findRank(rank_id int64) (*models.Rank, error) {
	var rank *models.Rank

	err := s.db.First(&rank, rank_id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRankNotFound
	} else if err != nil {
		return nil, err
	}

	return rank, nil
}
