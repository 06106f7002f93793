package daemons

import (
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/services"
)

// Migration migrates the schema and upserts the rank table from the compensation config,
// then returns.
type Migration struct {
	db     *gorm.DB
	engine *services.Engine
}

func NewMigration(db *gorm.DB, engine *services.Engine) *Migration {
	return &Migration{db: db, engine: engine}
}

func (m *Migration) Start() {
	if err := models.AutoMigrate(m.db); err != nil {
		config.Logger.Fatalf("Failed to migrate: %v", err)
	}

	cfg, err := config.Compensation()
	if err != nil {
		config.Logger.Fatalf("Failed to load compensation config: %v", err)
	}

	seeded, err := m.engine.Rank.SeedRanks(cfg)
	if err != nil {
		config.Logger.Fatalf("Failed to seed ranks: %v", err)
	}

	config.Logger.Infof("Schema migrated, %d ranks seeded", seeded)
}

func (m *Migration) Stop() {}
