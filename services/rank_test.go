package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

type rankSuite struct {
	engineSuite
}

func TestRank(t *testing.T) {
	suite.Run(t, new(rankSuite))
}

func seed(name string, order int, directs, team, personal, bonus, monthly int64) config.RankSeed {
	return config.RankSeed{
		Name:                   name,
		DisplayOrder:           order,
		MinDirectReferrals:     directs,
		MinTeamVolume:          decimal.NewFromInt(team),
		MinPersonalVolume:      decimal.NewFromInt(personal),
		OneTimeBonus:           decimal.NewFromInt(bonus),
		MonthlyLeadershipBonus: decimal.NewFromInt(monthly),
	}
}

func (s *rankSuite) SetupTest() {
	s.engineSuite.SetupTest()

	s.seedRanks(
		seed("Associate", 1, 2, 1000, 100, 250, 0),
		seed("Manager", 2, 3, 5000, 200, 1000, 100),
		seed("Director", 3, 5, 50000, 500, 5000, 500),
	)
}

func (s *rankSuite) seedRanks(seeds ...config.RankSeed) {
	s.cfg.Ranks = seeds

	seeded, err := s.engine.Rank.SeedRanks(s.cfg)
	s.Require().NoError(err)
	s.Equal(len(seeds), seeded)
}

func (s *rankSuite) rank(order int) *models.Rank {
	var rank *models.Rank
	s.Require().NoError(s.db.Where("display_order = ?", order).First(&rank).Error)
	return rank
}

// leader has three active directs with 2000 each and 300 of its own volume: enough for
// Manager, not for Director.
func (s *rankSuite) leader() *models.Member {
	root := s.createMember(nil, types.MemberStatusActive)
	s.invest(root, 300, types.ActivityStateActive)

	for i := 0; i < 3; i++ {
		child := s.createMember(root, types.MemberStatusActive)
		s.invest(child, 2000, types.ActivityStateActive)
	}

	return root
}

func (s *rankSuite) TestLadderWalkAwardsEveryQualifiedRung() {
	root := s.leader()

	awarded, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)
	s.Require().NotNil(awarded)
	s.Equal("Manager", awarded.Name)

	current, err := s.engine.Rank.CurrentRank(root.ID)
	s.Require().NoError(err)
	s.Equal("Manager", current.Rank.Name)
	s.EqualValues(1, s.count(&models.MemberRank{}, "member_id = ? AND is_current = ?", root.ID, true))
	s.EqualValues(2, s.count(&models.RankAchievement{}, "member_id = ?", root.ID))
	s.EqualValues(2, s.count(&models.Reward{}, "member_id = ? AND state = ?", root.ID, types.RewardStatePending))

	again, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)
	s.Nil(again)
	s.EqualValues(2, s.count(&models.Reward{}, "member_id = ?", root.ID))
}

func (s *rankSuite) TestPendingRankBonusesArePaidOnce() {
	root := s.leader()

	_, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)

	first, err := s.engine.ProcessPendingBonuses()
	s.Require().NoError(err)
	s.Equal(2, first.Processed)
	s.equalDecimal("1250", first.TotalAmount)

	second, err := s.engine.ProcessPendingBonuses()
	s.Require().NoError(err)
	s.Zero(second.Processed)

	wallet := s.wallet(root)
	s.equalDecimal("1250", wallet.CommissionBalance)
	s.equalDecimal("1250", wallet.TotalEarned)
	s.EqualValues(2, s.count(&models.LedgerEntry{}, "member_id = ? AND category = ?", root.ID, types.CategoryRankBonus))
	s.EqualValues(2, s.count(&models.RankAchievement{}, "member_id = ? AND bonus_paid = ?", root.ID, true))
}

func (s *rankSuite) TestLadderStopsAtFirstFailedRung() {
	s.seedRanks(
		seed("Starter", 1, 0, 0, 1000, 10, 0),
		seed("Builder", 2, 0, 0, 0, 20, 0),
	)
	s.Require().NoError(s.db.Where("display_order > ?", 2).Delete(&models.Rank{}).Error)

	member := s.createMember(nil, types.MemberStatusActive)

	awarded, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, member.ID)
	s.Require().NoError(err)
	s.Nil(awarded)
	s.Zero(s.count(&models.RankAchievement{}, "member_id = ?", member.ID))

	s.invest(member, 1000, types.ActivityStateActive)

	awarded, err = s.engine.Rank.CheckAndAwardRanks(s.cfg, member.ID)
	s.Require().NoError(err)
	s.Require().NotNil(awarded)
	s.Equal("Builder", awarded.Name)
}

func (s *rankSuite) TestInactiveDirectsDoNotCount() {
	root := s.createMember(nil, types.MemberStatusActive)
	s.invest(root, 300, types.ActivityStateActive)
	for i := 0; i < 3; i++ {
		child := s.createMember(root, types.MemberStatusInactive)
		s.invest(child, 2000, types.ActivityStateActive)
	}

	qualification, err := s.engine.Rank.CheckRankQualification(s.cfg, root.ID, s.rank(1).ID)
	s.Require().NoError(err)
	s.False(qualification.Qualified)
	s.EqualValues(0, qualification.Metrics.DirectReferrals)
	s.EqualValues(2, qualification.Missing.DirectReferrals)
	s.equalDecimal("6000", qualification.Metrics.TeamVolume)
	s.True(qualification.Missing.TeamVolume.IsZero())
}

func (s *rankSuite) TestRankProgress() {
	root := s.leader()

	progress, err := s.engine.Rank.RankProgress(s.cfg, root.ID)
	s.Require().NoError(err)
	s.Nil(progress.Current)
	s.Require().NotNil(progress.Next)
	s.Equal("Associate", progress.Next.Rank.Name)
	s.True(progress.Next.Qualified)

	_, err = s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)

	progress, err = s.engine.Rank.RankProgress(s.cfg, root.ID)
	s.Require().NoError(err)
	s.Equal("Manager", progress.Current.Rank.Name)
	s.Equal("Director", progress.Next.Rank.Name)
	s.False(progress.Next.Qualified)
	s.EqualValues(2, progress.Next.Missing.DirectReferrals)
	s.equalDecimal("44000", progress.Next.Missing.TeamVolume)
	s.equalDecimal("200", progress.Next.Missing.PersonalVolume)
}

func (s *rankSuite) TestManualAssignmentOnlyMovesUp() {
	member := s.createMember(nil, types.MemberStatusActive)

	assignment, err := s.engine.Rank.AssignRankManually(s.cfg, member.ID, s.rank(3).ID)
	s.Require().NoError(err)
	s.Equal("Director", assignment.Rank.Name)
	s.True(assignment.ManualAssignment)
	s.EqualValues(1, s.count(&models.Reward{}, "member_id = ? AND reference_id = ?", member.ID, s.rank(3).ID))

	awarded, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, member.ID)
	s.Require().NoError(err)
	s.Nil(awarded)

	_, err = s.engine.Rank.AssignRankManually(s.cfg, member.ID, s.rank(1).ID)
	s.ErrorIs(err, ErrRankDowngrade)

	_, err = s.engine.Rank.AssignRankManually(s.cfg, member.ID, s.rank(3).ID)
	s.ErrorIs(err, ErrRankAlreadyAchieved)

	_, err = s.engine.Rank.AssignRankManually(s.cfg, member.ID, 404)
	s.ErrorIs(err, ErrRankNotFound)

	current, err := s.engine.Rank.CurrentRank(member.ID)
	s.Require().NoError(err)
	s.Equal("Director", current.Rank.Name)
}

func (s *rankSuite) TestSuspendedMemberIsRejected() {
	member := s.createMember(nil, types.MemberStatusSuspended)

	_, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, member.ID)
	s.ErrorIs(err, ErrMemberSuspended)
}

func (s *rankSuite) TestBatchIsolatesFailures() {
	s.seedRanks(seed("Starter", 1, 0, 0, 100, 10, 0))
	s.Require().NoError(s.db.Where("display_order > ?", 1).Delete(&models.Rank{}).Error)
	s.cfg.MaxTreeNodes = 2

	wide := s.createMember(nil, types.MemberStatusActive)
	s.invest(wide, 100, types.ActivityStateActive)
	for i := 0; i < 3; i++ {
		child := s.createMember(wide, types.MemberStatusActive)
		s.invest(child, 100, types.ActivityStateActive)
	}
	s.createMember(nil, types.MemberStatusInactive)

	result, err := s.engine.CheckAllMembersForRankUpgrade(s.cfg)
	s.Require().NoError(err)
	s.Equal(4, result.Checked)
	s.Equal(1, result.Failed)
	s.Equal(3, result.Awarded)
	s.Len(result.Errors, 1)
	s.Zero(s.count(&models.RankAchievement{}, "member_id = ?", wide.ID))
}

func (s *rankSuite) TestMonthlyLeadershipRewards() {
	root := s.leader()
	_, err := s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)

	suspended := s.createMember(nil, types.MemberStatusActive)
	_, err = s.engine.Rank.AssignRankManually(s.cfg, suspended.ID, s.rank(3).ID)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Model(&models.Member{}).Where("id = ?", suspended.ID).Update("status", types.MemberStatusSuspended).Error)

	period := types.Period{Year: 2024, Month: 6}

	result, err := s.engine.GenerateMonthlyLeadershipRewards(period)
	s.Require().NoError(err)
	s.Equal(1, result.Created)
	s.equalDecimal("100", result.TotalAmount)

	rerun, err := s.engine.GenerateMonthlyLeadershipRewards(period)
	s.Require().NoError(err)
	s.Zero(rerun.Created)
	s.Equal(1, rerun.Skipped)

	next, err := s.engine.GenerateMonthlyLeadershipRewards(types.Period{Year: 2024, Month: 7})
	s.Require().NoError(err)
	s.Equal(1, next.Created)

	s.EqualValues(2, s.count(&models.Reward{}, "member_id = ? AND reward_type = ?", root.ID, types.RewardTypeMonthlyLeadership))
}

func (s *rankSuite) TestSeedRanksUpserts() {
	s.seedRanks(
		seed("Associate Plus", 1, 2, 1000, 100, 300, 0),
	)

	s.EqualValues(3, s.count(&models.Rank{}, "is_active = ?", true))
	s.Equal("Associate Plus", s.rank(1).Name)
	s.equalDecimal("300", s.rank(1).OneTimeBonus)
}

func (s *rankSuite) TestAchievementsListReachedRanks() {
	root := s.leader()

	achievements, err := s.engine.Rank.Achievements(root.ID)
	s.Require().NoError(err)
	s.Empty(achievements)

	_, err = s.engine.Rank.CheckAndAwardRanks(s.cfg, root.ID)
	s.Require().NoError(err)

	achievements, err = s.engine.Rank.Achievements(root.ID)
	s.Require().NoError(err)
	s.Require().Len(achievements, 2)
	s.Equal("Associate", achievements[0].RankName)
	s.Equal("Manager", achievements[1].RankName)
	s.False(achievements[1].BonusPaid)
}
