package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

type graphSuite struct {
	engineSuite
}

func TestGraph(t *testing.T) {
	suite.Run(t, new(graphSuite))
}

func (s *graphSuite) TestDescendantsBreadthFirst() {
	root := s.createMember(nil, types.MemberStatusActive)
	a := s.createMember(root, types.MemberStatusActive)
	b := s.createMember(root, types.MemberStatusInactive)
	c := s.createMember(a, types.MemberStatusActive)
	d := s.createMember(c, types.MemberStatusActive)

	graph := NewMemberGraph(s.db, 0)

	descendants, err := graph.Descendants(root.ID)
	s.Require().NoError(err)
	s.Equal([]int64{a.ID, b.ID, c.ID, d.ID}, descendants)

	leaf, err := graph.Descendants(d.ID)
	s.Require().NoError(err)
	s.Empty(leaf)

	children, err := graph.DirectChildren(root.ID)
	s.Require().NoError(err)
	s.Equal([]int64{a.ID, b.ID}, children)

	active, err := graph.DirectActiveCount(root.ID)
	s.Require().NoError(err)
	s.EqualValues(1, active)
}

func (s *graphSuite) TestDescendantsSurvivesCycle() {
	x := s.createMember(nil, types.MemberStatusActive)
	y := s.createMember(x, types.MemberStatusActive)
	s.Require().NoError(s.db.Model(&models.Member{}).Where("id = ?", x.ID).Update("sponsor_id", y.ID).Error)

	descendants, err := NewMemberGraph(s.db, 0).Descendants(x.ID)
	s.Require().NoError(err)
	s.Equal([]int64{y.ID}, descendants)
}

func (s *graphSuite) TestDescendantsNodeBound() {
	root := s.createMember(nil, types.MemberStatusActive)
	for i := 0; i < 3; i++ {
		s.createMember(root, types.MemberStatusActive)
	}

	_, err := NewMemberGraph(s.db, 2).Descendants(root.ID)
	s.ErrorIs(err, ErrTreeTooLarge)

	descendants, err := NewMemberGraph(s.db, 3).Descendants(root.ID)
	s.Require().NoError(err)
	s.Len(descendants, 3)
}

func (s *graphSuite) TestLegVolumeIsAdditive() {
	root := s.createMember(nil, types.MemberStatusActive)
	a := s.createMember(root, types.MemberStatusActive)
	b := s.createMember(root, types.MemberStatusActive)
	c := s.createMember(a, types.MemberStatusActive)
	d := s.createMember(c, types.MemberStatusActive)

	s.invest(root, 100, types.ActivityStateActive)
	s.invest(a, 200, types.ActivityStateCompleted)
	s.invest(b, 300, types.ActivityStateActive)
	s.invest(c, 400, types.ActivityStateActive)
	s.invest(d, 500, types.ActivityStateActive)
	s.invest(d, 9000, types.ActivityStatePending)
	s.invest(b, 9000, types.ActivityStateCancelled)

	volumes := NewVolumeAggregator(s.db, NewMemberGraph(s.db, 0))

	for _, member := range []*models.Member{root, a, b, c, d} {
		leg, err := volumes.LegVolume(member.ID)
		s.Require().NoError(err)

		expected, err := volumes.PersonalVolume(member.ID)
		s.Require().NoError(err)

		children, err := volumes.Graph().DirectChildren(member.ID)
		s.Require().NoError(err)
		for _, child := range children {
			childLeg, err := volumes.LegVolume(child)
			s.Require().NoError(err)
			expected = expected.Add(childLeg)
		}

		s.True(expected.Equal(leg), "member %d: %s != %s", member.ID, expected, leg)
	}

	leg, err := volumes.LegVolume(root.ID)
	s.Require().NoError(err)
	s.equalDecimal("1500", leg)

	team, err := volumes.TeamVolume(root.ID)
	s.Require().NoError(err)
	s.equalDecimal("1400", team)
}

func (s *graphSuite) TestVolumeWindowAndTurnover() {
	root := s.createMember(nil, types.MemberStatusActive)
	child := s.createMember(root, types.MemberStatusActive)

	period := types.Period{Year: 2024, Month: 3}
	s.investAt(root, 100, types.ActivityStateActive, period.Start())
	s.investAt(child, 250, types.ActivityStateCompleted, period.Start().Add(48*time.Hour))
	s.investAt(child, 1000, types.ActivityStateActive, period.End())
	s.investAt(child, 1000, types.ActivityStateActive, period.Start().Add(-time.Second))

	volumes := NewVolumeAggregator(s.db, NewMemberGraph(s.db, 0)).Between(period.Start(), period.End())
	leg, err := volumes.LegVolume(root.ID)
	s.Require().NoError(err)
	s.equalDecimal("350", leg)

	turnover, err := Turnover(s.db, period.Start(), period.End())
	s.Require().NoError(err)
	s.equalDecimal("350", turnover)
}
