package routes

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

type routesSuite struct {
	suite.Suite

	db  *gorm.DB
	key *rsa.PrivateKey
	app *fiber.App
}

func TestRoutes(t *testing.T) {
	suite.Run(t, new(routesSuite))
}

func (s *routesSuite) SetupTest() {
	config.NewLoggerService()

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
	config.DataBase = db

	s.key, err = rsa.GenerateKey(rand.Reader, 2048)
	s.Require().NoError(err)

	public_key, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	s.Require().NoError(err)
	public_key_pem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: public_key})
	s.T().Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(public_key_pem))

	s.app = SetupRouter()
}

func (s *routesSuite) token(uid, role, referral_id string) string {
	claims := &auth.Auth{
		UID:        uid,
		Email:      strings.ToLower(uid) + "@example.com",
		Username:   strings.ToLower(uid),
		Role:       role,
		ReferralID: referral_id,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	s.Require().NoError(err)

	return token
}

func (s *routesSuite) request(method, path, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, nil)
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer res.Body.Close()

	body := map[string]interface{}{}
	json.NewDecoder(res.Body).Decode(&body)

	return res.StatusCode, body
}

func (s *routesSuite) member(uid string) *models.Member {
	var member *models.Member
	s.Require().NoError(s.db.Where("uid = ?", uid).First(&member).Error)
	return member
}

func (s *routesSuite) TestAuthenticateRegistersMemberWithSponsor() {
	status, _ := s.request(http.MethodGet, "/api/v2/mlm/wallet", s.token("USPONSOR", "member", ""))
	s.Equal(200, status)

	status, body := s.request(http.MethodGet, "/api/v2/mlm/wallet", s.token("UMEMBER", "member", "USPONSOR"))
	s.Equal(200, status)
	s.Equal(true, body["success"])

	sponsor := s.member("USPONSOR")
	member := s.member("UMEMBER")
	s.True(member.SponsorID.Valid)
	s.Equal(sponsor.ID, member.SponsorID.Int64)
	s.Equal(types.MemberStatusInactive, member.Status)

	var wallets int64
	s.db.Model(&models.Wallet{}).Where("member_id = ?", member.ID).Count(&wallets)
	s.EqualValues(1, wallets)

	status, _ = s.request(http.MethodGet, "/api/v2/mlm/wallet", "")
	s.Equal(401, status)
}

func (s *routesSuite) TestPinVerificationNeedsSession() {
	pin := &models.EPin{
		Code:   "EP00000000000000AA",
		Amount: decimal.NewFromInt(100),
		State:  types.EPinStateAvailable,
		Source: types.EPinSourceAdmin,
	}
	s.Require().NoError(s.db.Create(pin).Error)

	status, _ := s.request(http.MethodGet, "/api/v2/public/epins/"+pin.Code, "")
	s.Equal(404, status)

	status, _ = s.request(http.MethodGet, "/api/v2/mlm/epins/"+pin.Code, "")
	s.Equal(401, status)

	status, body := s.request(http.MethodGet, "/api/v2/mlm/epins/"+pin.Code, s.token("UMEMBER", "member", ""))
	s.Equal(200, status)

	data := body["data"].(map[string]interface{})
	s.Equal(true, data["valid"])
	s.Equal(types.EPinStateAvailable, data["state"])
}

func (s *routesSuite) TestMemberRewards() {
	token := s.token("UMEMBER", "member", "")

	status, _ := s.request(http.MethodGet, "/api/v2/mlm/rewards", token)
	s.Equal(200, status)

	member := s.member("UMEMBER")
	s.Require().NoError(s.db.Create(&models.Reward{
		MemberID:      member.ID,
		RewardType:    types.RewardTypeOneTimeBonus,
		ReferenceType: models.ReferenceRank,
		ReferenceID:   1,
		Amount:        decimal.NewFromInt(250),
		State:         types.RewardStatePending,
	}).Error)

	status, body := s.request(http.MethodGet, "/api/v2/mlm/rewards?state=PENDING", token)
	s.Equal(200, status)
	s.Len(body["data"], 1)

	status, body = s.request(http.MethodGet, "/api/v2/mlm/rewards?state=PAID", token)
	s.Equal(200, status)
	s.Empty(body["data"])

	status, _ = s.request(http.MethodGet, "/api/v2/mlm/rewards?state=LOST", token)
	s.Equal(422, status)

	status, body = s.request(http.MethodGet, "/api/v2/mlm/rewards/stats", token)
	s.Equal(200, status)

	stats := body["data"].(map[string]interface{})
	s.EqualValues(1, stats["pending"])
	s.EqualValues(0, stats["paid"])
}

func (s *routesSuite) TestAuthenticateLogsFailedMemberSync() {
	status, _ := s.request(http.MethodGet, "/api/v2/mlm/wallet", s.token("UMEMBER", "member", ""))
	s.Require().Equal(200, status)

	s.Require().NoError(s.db.Callback().Update().Before("gorm:update").Register("test:refuse_member_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "members" {
			tx.AddError(errors.New("update refused"))
		}
	}))

	hook := logtest.NewLocal(config.Logger)

	status, _ = s.request(http.MethodGet, "/api/v2/mlm/wallet", s.token("UMEMBER", "admin", ""))
	s.Equal(200, status)

	logged := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && strings.Contains(entry.Message, "Failed to sync member UMEMBER") {
			logged = true
		}
	}
	s.True(logged)
	s.Equal("member", s.member("UMEMBER").Role)
}
