package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/models/datatypes"
	"github.com/zsmartex/mlm/types"
)

// clubLegs is how many of the strongest legs take part in club qualification.
const clubLegs = 3

var hundred = decimal.NewFromInt(100)

type ClubEvaluation struct {
	MemberID    int64                 `json:"member_id"`
	Legs        []datatypes.LegVolume `json:"legs"`
	TotalVolume decimal.Decimal       `json:"total_volume"`
	Qualified   bool                  `json:"qualified"`
	Tier        types.ClubTier        `json:"tier"`
}

type ClubUpdate struct {
	*ClubEvaluation
	PreviousTier types.ClubTier `json:"previous_tier"`
	Upgraded     bool           `json:"upgraded"`
	Reward       *models.Reward `json:"reward,omitempty"`
}

type ClubService struct {
	db *gorm.DB
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{db: db}
}

func (s *ClubService) volumes(cfg *config.CompensationConfig) *VolumeAggregator {
	return NewVolumeAggregator(s.db, NewMemberGraph(s.db, cfg.MaxTreeNodes))
}

// EvaluateClub computes the club standing of a member without persisting anything.
func (s *ClubService) EvaluateClub(cfg *config.CompensationConfig, member_id int64) (*ClubEvaluation, error) {
	if _, err := findMember(s.db, member_id); err != nil {
		return nil, err
	}

	return evaluateClub(cfg, s.volumes(cfg), member_id)
}

func evaluateClub(cfg *config.CompensationConfig, volumes *VolumeAggregator, member_id int64) (*ClubEvaluation, error) {
	children, err := volumes.Graph().DirectChildren(member_id)
	if err != nil {
		return nil, err
	}

	legs := make([]datatypes.LegVolume, 0, len(children))
	for _, child := range children {
		volume, err := volumes.LegVolume(child)
		if err != nil {
			return nil, err
		}

		legs = append(legs, datatypes.LegVolume{LegOwnerID: child, Volume: volume})
	}

	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].Volume.GreaterThan(legs[j].Volume)
	})
	if len(legs) > clubLegs {
		legs = legs[:clubLegs]
	}

	total := decimal.Zero
	for _, leg := range legs {
		total = total.Add(leg.Volume)
	}

	evaluation := &ClubEvaluation{
		MemberID:    member_id,
		Legs:        legs,
		TotalVolume: total,
		Tier:        types.ClubTierNone,
	}

	if len(legs) < clubLegs || !total.IsPositive() {
		return evaluation, nil
	}

	evaluation.Qualified = WithinRatioBand(cfg.ClubRatio, legs, total)
	if evaluation.Qualified {
		evaluation.Tier = TierFor(cfg, total)
	}

	return evaluation, nil
}

// WithinRatioBand reports whether the share of each of the top three legs lies inside band.
// Bounds are inclusive.
func WithinRatioBand(band config.ClubRatioBand, legs []datatypes.LegVolume, total decimal.Decimal) bool {
	if len(legs) < clubLegs || !total.IsPositive() {
		return false
	}

	bounds := [clubLegs][2]decimal.Decimal{
		{band.FirstMin, band.FirstMax},
		{band.SecondMin, band.SecondMax},
		{band.ThirdMin, band.ThirdMax},
	}

	for i, bound := range bounds {
		share := legs[i].Volume.Mul(hundred).Div(total)
		if share.LessThan(bound[0]) || share.GreaterThan(bound[1]) {
			return false
		}
	}

	return true
}

// TierFor returns the highest configured tier whose cutoff total reaches.
func TierFor(cfg *config.CompensationConfig, total decimal.Decimal) types.ClubTier {
	tier := types.ClubTierNone

	for _, t := range cfg.ClubTiers {
		if total.GreaterThanOrEqual(t.Cutoff) && t.Tier.HigherThan(tier) {
			tier = t.Tier
		}
	}

	return tier
}

// UpdateClubStatus evaluates the member and stores the tier and leg snapshot. Reaching a tier
// higher than the stored one for the first time creates a pending achievement reward.
func (s *ClubService) UpdateClubStatus(cfg *config.CompensationConfig, member_id int64) (*ClubUpdate, error) {
	if _, err := findMember(s.db, member_id); err != nil {
		return nil, err
	}

	return s.updateClubStatus(cfg, s.volumes(cfg), member_id)
}

func (s *ClubService) updateClubStatus(cfg *config.CompensationConfig, volumes *VolumeAggregator, member_id int64) (*ClubUpdate, error) {
	evaluation, err := evaluateClub(cfg, volumes, member_id)
	if err != nil {
		return nil, err
	}

	update := &ClubUpdate{ClubEvaluation: evaluation}
	now := time.Now().UTC()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var member *models.Member
		if err := models.Lock(tx).First(&member, member_id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}

		update.PreviousTier = member.ClubTier

		if err := tx.Model(member).Updates(map[string]interface{}{
			"club_tier": evaluation.Tier,
			"club_progress": datatypes.ClubProgress{
				Legs:        evaluation.Legs,
				TotalVolume: evaluation.TotalVolume,
				Qualified:   evaluation.Qualified,
				EvaluatedAt: now,
			},
			"club_updated_at": now,
		}).Error; err != nil {
			return err
		}

		if evaluation.Tier == types.ClubTierNone || !evaluation.Tier.HigherThan(update.PreviousTier) {
			return nil
		}

		achievement := &models.ClubAchievement{
			MemberID:    member_id,
			Tier:        evaluation.Tier,
			TotalVolume: evaluation.TotalVolume,
			AchievedAt:  now,
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(achievement)
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			// reached before, lost and reached again
			return nil
		}

		update.Upgraded = true
		config.Logger.Infof("[club] member %d reached %s with volume %s", member_id, evaluation.Tier, evaluation.TotalVolume)

		tier := cfg.TierConfig(evaluation.Tier)
		if tier == nil || !tier.AchievementBonus.IsPositive() {
			return nil
		}

		reward := &models.Reward{
			MemberID:      member_id,
			RewardType:    types.RewardTypeClubAchievement,
			ReferenceType: models.ReferenceClub,
			ReferenceID:   int64(evaluation.Tier.Order()),
			Amount:        tier.AchievementBonus,
			State:         types.RewardStatePending,
			Notes:         fmt.Sprintf("%s club achievement bonus", evaluation.Tier),
		}
		if err := tx.Create(reward).Error; err != nil {
			return err
		}

		update.Reward = reward

		return nil
	})

	if err != nil {
		return nil, err
	}

	return update, nil
}

type ClubBatchResult struct {
	Checked  int      `json:"checked"`
	Upgraded int      `json:"upgraded"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// UpdateAllClubStatuses re-evaluates every ACTIVE member. A failing member is logged and
// counted, the run continues with the next one.
func (s *ClubService) UpdateAllClubStatuses(cfg *config.CompensationConfig) (*ClubBatchResult, error) {
	ids, err := models.ActiveMemberIDs(s.db)
	if err != nil {
		return nil, err
	}

	volumes := s.volumes(cfg)
	result := &ClubBatchResult{}

	for _, id := range ids {
		result.Checked++

		update, err := s.updateClubStatus(cfg, volumes, id)
		if err != nil {
			config.Logger.Errorf("[club] failed to update member %d: %v", id, err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("member %d: %v", id, err))
			continue
		}

		if update.Upgraded {
			result.Upgraded++
		}
	}

	return result, nil
}

type ClubTierCount struct {
	Tier  types.ClubTier `json:"tier"`
	Count int64          `json:"count"`
}

func (s *ClubService) ClubStats() ([]ClubTierCount, error) {
	var counts []ClubTierCount

	err := s.db.Model(&models.Member{}).
		Select("club_tier AS tier, COUNT(*) AS count").
		Group("club_tier").
		Order("club_tier").
		Scan(&counts).Error

	return counts, err
}

type TierRoyalty struct {
	Tier    types.ClubTier  `json:"tier"`
	Percent decimal.Decimal `json:"percent"`
	Pool    decimal.Decimal `json:"pool"`
	Members int             `json:"members"`
	Share   decimal.Decimal `json:"share"`
}

type RoyaltyResult struct {
	Period      types.Period    `json:"period"`
	Turnover    decimal.Decimal `json:"turnover"`
	Tiers       []TierRoyalty   `json:"tiers"`
	Processed   int             `json:"processed"`
	Pending     int             `json:"pending"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DistributeMonthlyRoyalty splits each tier's percentage of the period turnover evenly among
// the ACTIVE members currently holding that tier. Each share is a CLUB_ROYALTY reward unique
// per (member, tier, period) that is paid right away; a share whose payment fails stays
// pending for the bonus sweep. A tier without members distributes nothing.
func (s *ClubService) DistributeMonthlyRoyalty(cfg *config.CompensationConfig, period types.Period, ledger *LedgerService) (*RoyaltyResult, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	turnover, err := Turnover(s.db, period.Start(), period.End())
	if err != nil {
		return nil, err
	}

	result := &RoyaltyResult{
		Period:      period,
		Turnover:    turnover,
		TotalAmount: decimal.Zero,
	}

	for _, tier := range cfg.ClubTiers {
		var member_ids []int64
		if err := s.db.Model(&models.Member{}).
			Where("club_tier = ? AND status = ?", tier.Tier, types.MemberStatusActive).
			Order("id asc").
			Pluck("id", &member_ids).Error; err != nil {
			return nil, err
		}

		royalty := TierRoyalty{
			Tier:    tier.Tier,
			Percent: tier.RoyaltyPercent,
			Pool:    turnover.Mul(tier.RoyaltyPercent).Div(hundred).RoundDown(8),
			Members: len(member_ids),
			Share:   decimal.Zero,
		}

		if royalty.Members == 0 || !royalty.Pool.IsPositive() {
			result.Tiers = append(result.Tiers, royalty)
			continue
		}

		royalty.Share = royalty.Pool.Div(decimal.NewFromInt(int64(royalty.Members))).RoundDown(8)
		result.Tiers = append(result.Tiers, royalty)

		for _, member_id := range member_ids {
			reward := &models.Reward{
				MemberID:      member_id,
				RewardType:    types.RewardTypeClubRoyalty,
				ReferenceType: models.ReferenceClub,
				ReferenceID:   int64(tier.Tier.Order()),
				PeriodYear:    period.Year,
				PeriodMonth:   period.Month,
				Amount:        royalty.Share,
				State:         types.RewardStatePending,
				Notes:         fmt.Sprintf("%s club royalty for %s", tier.Tier, period),
			}

			created := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(reward)
			if created.Error != nil {
				config.Logger.Errorf("[club] failed to create royalty for member %d: %v", member_id, created.Error)
				result.Failed++
				continue
			} else if created.RowsAffected == 0 {
				result.Skipped++
				continue
			}

			if _, err := ledger.PayReward(reward.ID); err != nil {
				if errors.Is(err, ErrWalletNotFound) {
					config.Logger.Warnf("[club] royalty for member %d left pending: wallet not found", member_id)
				} else {
					config.Logger.Errorf("[club] failed to pay royalty %d: %v", reward.ID, err)
				}
				result.Pending++
				continue
			}

			result.Processed++
			result.TotalAmount = result.TotalAmount.Add(reward.Amount)
		}
	}

	config.Logger.Infof("[club] royalty for %s: turnover %s, paid %d, total %s", period, turnover, result.Processed, result.TotalAmount)

	return result, nil
}
