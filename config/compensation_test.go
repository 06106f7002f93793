package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsmartex/mlm/types"
)

func writeCompensation(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "compensation.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))

	return path
}

func TestLoadCompensation(t *testing.T) {
	cfg, err := LoadCompensation("compensation.yml")
	require.NoError(t, err)

	require.Len(t, cfg.ClubTiers, 3)
	assert.Equal(t, types.ClubTierSilver, cfg.ClubTiers[0].Tier)
	assert.True(t, cfg.ClubTiers[2].Cutoff.Equal(decimal.NewFromInt(25000000)))
	assert.True(t, cfg.EPin.FeePercent.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 10, cfg.EPin.MaxWalletCount)
	assert.Len(t, cfg.Ranks, 4)
	assert.Equal(t, "Crown", cfg.Ranks[3].Name)
}

func TestLoadCompensationMissingFile(t *testing.T) {
	cfg, err := LoadCompensation(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultCompensation(), cfg)
}

func TestLoadCompensationFillsDefaults(t *testing.T) {
	cfg, err := LoadCompensation(writeCompensation(t, "epin:\n  fee_percent: 5\n"))
	require.NoError(t, err)

	assert.True(t, cfg.EPin.FeePercent.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 10, cfg.EPin.MaxWalletCount)
	assert.Equal(t, 1000, cfg.EPin.MaxAdminCount)
	assert.Equal(t, DefaultMaxTreeNodes, cfg.MaxTreeNodes)
	assert.Equal(t, DefaultClubRatioBand, cfg.ClubRatio)
	assert.Len(t, cfg.ClubTiers, 3)
}

func TestLoadCompensationRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"descending cutoffs": "club_tiers:\n  - tier: SILVER\n    cutoff: 100\n  - tier: GOLD\n    cutoff: 50\n",
		"unknown tier":       "club_tiers:\n  - tier: PLATINUM\n    cutoff: 100\n",
		"none tier":          "club_tiers:\n  - tier: NONE\n    cutoff: 100\n",
		"negative fee":       "epin:\n  fee_percent: -1\n",
		"negative expiry":    "epin:\n  fee_percent: 1\n  default_expiry_days: -3\n",
		"rank order":         "ranks:\n  - name: A\n    display_order: 2\n  - name: B\n    display_order: 2\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCompensation(writeCompensation(t, body))
			assert.Error(t, err)
		})
	}
}

func TestTierConfig(t *testing.T) {
	cfg := DefaultCompensation()

	gold := cfg.TierConfig(types.ClubTierGold)
	require.NotNil(t, gold)
	assert.True(t, gold.AchievementBonus.Equal(decimal.NewFromInt(100000)))
	assert.Nil(t, cfg.TierConfig(types.ClubTierNone))
}
