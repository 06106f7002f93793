package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/zsmartex/mlm/types"
)

const DefaultCompensationPath = "config/compensation.yml"

type ClubTierConfig struct {
	Tier             types.ClubTier  `yaml:"tier"`
	Cutoff           decimal.Decimal `yaml:"cutoff"`
	AchievementBonus decimal.Decimal `yaml:"achievement_bonus"`
	RoyaltyPercent   decimal.Decimal `yaml:"royalty_percent"`
}

// ClubRatioBand is the accepted share (in percent of the top-3 total) of each of the three
// strongest legs. The target split is 40:40:20 with a 5 point tolerance either side.
type ClubRatioBand struct {
	FirstMin  decimal.Decimal `yaml:"first_min"`
	FirstMax  decimal.Decimal `yaml:"first_max"`
	SecondMin decimal.Decimal `yaml:"second_min"`
	SecondMax decimal.Decimal `yaml:"second_max"`
	ThirdMin  decimal.Decimal `yaml:"third_min"`
	ThirdMax  decimal.Decimal `yaml:"third_max"`
}

type RankSeed struct {
	Name                   string          `yaml:"name"`
	DisplayOrder           int             `yaml:"display_order"`
	MinDirectReferrals     int64           `yaml:"min_direct_referrals"`
	MinTeamVolume          decimal.Decimal `yaml:"min_team_volume"`
	MinPersonalVolume      decimal.Decimal `yaml:"min_personal_volume"`
	OneTimeBonus           decimal.Decimal `yaml:"one_time_bonus"`
	MonthlyLeadershipBonus decimal.Decimal `yaml:"monthly_leadership_bonus"`
}

type EPinConfig struct {
	FeePercent        decimal.Decimal `yaml:"fee_percent"`
	DefaultExpiryDays int             `yaml:"default_expiry_days"`
	MaxWalletCount    int             `yaml:"max_wallet_count"`
	MaxAdminCount     int             `yaml:"max_admin_count"`
}

// CompensationConfig is read at the start of every evaluation and handed to the engine
// explicitly. Nothing in services reads it from package state.
type CompensationConfig struct {
	ClubTiers    []ClubTierConfig `yaml:"club_tiers"`
	ClubRatio    ClubRatioBand    `yaml:"club_ratio"`
	EPin         EPinConfig       `yaml:"epin"`
	MaxTreeNodes int              `yaml:"max_tree_nodes"`
	Ranks        []RankSeed       `yaml:"ranks"`
}

var DefaultClubRatioBand = ClubRatioBand{
	FirstMin:  decimal.NewFromInt(35),
	FirstMax:  decimal.NewFromInt(45),
	SecondMin: decimal.NewFromInt(35),
	SecondMax: decimal.NewFromInt(45),
	ThirdMin:  decimal.NewFromInt(15),
	ThirdMax:  decimal.NewFromInt(25),
}

const DefaultMaxTreeNodes = 1000000

func DefaultCompensation() *CompensationConfig {
	return &CompensationConfig{
		ClubTiers: []ClubTierConfig{
			{Tier: types.ClubTierSilver, Cutoff: decimal.NewFromInt(5000000), AchievementBonus: decimal.NewFromInt(50000), RoyaltyPercent: decimal.NewFromInt(1)},
			{Tier: types.ClubTierGold, Cutoff: decimal.NewFromInt(10000000), AchievementBonus: decimal.NewFromInt(100000), RoyaltyPercent: decimal.NewFromInt(1)},
			{Tier: types.ClubTierDiamond, Cutoff: decimal.NewFromInt(25000000), AchievementBonus: decimal.NewFromInt(250000), RoyaltyPercent: decimal.NewFromInt(1)},
		},
		ClubRatio: DefaultClubRatioBand,
		EPin: EPinConfig{
			FeePercent:        decimal.NewFromInt(10),
			DefaultExpiryDays: 0,
			MaxWalletCount:    10,
			MaxAdminCount:     1000,
		},
		MaxTreeNodes: DefaultMaxTreeNodes,
	}
}

func LoadCompensation(path string) (*CompensationConfig, error) {
	buf, err := ioutil.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if Logger != nil {
			Logger.Warnf("Compensation config %s not found, using defaults", path)
		}
		return DefaultCompensation(), nil
	} else if err != nil {
		return nil, err
	}

	c := &CompensationConfig{}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Compensation loads the config file named by COMPENSATION_CONFIG.
func Compensation() (*CompensationConfig, error) {
	path := os.Getenv("COMPENSATION_CONFIG")
	if len(path) == 0 {
		path = DefaultCompensationPath
	}

	return LoadCompensation(path)
}

func (c *CompensationConfig) applyDefaults() {
	defaults := DefaultCompensation()

	if len(c.ClubTiers) == 0 {
		c.ClubTiers = defaults.ClubTiers
	}
	if c.ClubRatio == (ClubRatioBand{}) {
		c.ClubRatio = defaults.ClubRatio
	}
	if c.EPin == (EPinConfig{}) {
		c.EPin = defaults.EPin
	}
	if c.EPin.MaxWalletCount == 0 {
		c.EPin.MaxWalletCount = defaults.EPin.MaxWalletCount
	}
	if c.EPin.MaxAdminCount == 0 {
		c.EPin.MaxAdminCount = defaults.EPin.MaxAdminCount
	}
	if c.MaxTreeNodes == 0 {
		c.MaxTreeNodes = defaults.MaxTreeNodes
	}
}

func (c *CompensationConfig) Validate() error {
	previous := decimal.Zero
	for i, tier := range c.ClubTiers {
		if !tier.Tier.Valid() || tier.Tier == types.ClubTierNone {
			return fmt.Errorf("club_tiers[%d]: invalid tier %q", i, tier.Tier)
		}
		if i > 0 && !tier.Cutoff.GreaterThan(previous) {
			return fmt.Errorf("club_tiers[%d]: cutoff %s must be greater than %s", i, tier.Cutoff, previous)
		}
		if tier.RoyaltyPercent.IsNegative() || tier.AchievementBonus.IsNegative() {
			return fmt.Errorf("club_tiers[%d]: negative royalty percent or achievement bonus", i)
		}
		previous = tier.Cutoff
	}

	if c.EPin.FeePercent.IsNegative() {
		return fmt.Errorf("epin.fee_percent must not be negative")
	}
	if c.EPin.DefaultExpiryDays < 0 {
		return fmt.Errorf("epin.default_expiry_days must not be negative")
	}
	if c.MaxTreeNodes < 0 {
		return fmt.Errorf("max_tree_nodes must not be negative")
	}

	for i, rank := range c.Ranks {
		if rank.DisplayOrder <= 0 {
			return fmt.Errorf("ranks[%d]: display_order must be positive", i)
		}
		if i > 0 && rank.DisplayOrder <= c.Ranks[i-1].DisplayOrder {
			return fmt.Errorf("ranks[%d]: display_order must be strictly increasing", i)
		}
	}

	return nil
}

// TierConfig returns the settings of tier, or nil when tier is not configured.
func (c *CompensationConfig) TierConfig(tier types.ClubTier) *ClubTierConfig {
	for i := range c.ClubTiers {
		if c.ClubTiers[i].Tier == tier {
			return &c.ClubTiers[i]
		}
	}

	return nil
}
