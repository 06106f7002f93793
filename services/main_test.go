package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/volatiletech/null"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

type engineSuite struct {
	suite.Suite

	db     *gorm.DB
	cfg    *config.CompensationConfig
	engine *Engine
}

func (s *engineSuite) SetupTest() {
	config.NewLoggerService()

	// one in-memory database per test; a single connection makes transactions serialize
	name := strings.NewReplacer("/", "_", " ", "_").Replace(s.T().Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.T().Cleanup(func() { sqlDB.Close() })

	s.Require().NoError(models.AutoMigrate(db))

	s.db = db
	s.cfg = config.DefaultCompensation()
	s.engine = NewEngine(db)
}

func (s *engineSuite) createMember(sponsor *models.Member, status types.MemberStatus) *models.Member {
	member := &models.Member{
		UID:      "U" + strings.ToUpper(strings.ReplaceAll(NewTransactionID("M"), "-", ""))[:12],
		Username: "member",
		Status:   status,
		ClubTier: types.ClubTierNone,
	}
	if sponsor != nil {
		member.SponsorID = null.Int64From(sponsor.ID)
	}

	s.Require().NoError(s.db.Create(member).Error)
	s.Require().NoError(s.db.Create(&models.Wallet{MemberID: member.ID}).Error)

	return member
}

func (s *engineSuite) invest(member *models.Member, amount int64, state types.ActivityState) {
	s.investAt(member, amount, state, time.Now().UTC())
}

func (s *engineSuite) investAt(member *models.Member, amount int64, state types.ActivityState, at time.Time) {
	s.Require().NoError(s.db.Create(&models.Investment{
		MemberID:  member.ID,
		Amount:    decimal.NewFromInt(amount),
		State:     state,
		CreatedAt: at.UTC(),
	}).Error)
}

func (s *engineSuite) credit(member *models.Member, amount int64) {
	_, err := s.engine.Ledger.Credit(member.ID, decimal.NewFromInt(amount), types.CategoryRankBonus, "seed")
	s.Require().NoError(err)
}

func (s *engineSuite) wallet(member *models.Member) *models.Wallet {
	wallet, err := s.engine.Ledger.Wallet(member.ID)
	s.Require().NoError(err)
	return wallet
}

func (s *engineSuite) equalDecimal(expected string, actual decimal.Decimal) {
	s.Truef(decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *engineSuite) count(model interface{}, query string, args ...interface{}) int64 {
	var count int64
	s.Require().NoError(s.db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
