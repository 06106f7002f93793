package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lock adds SELECT ... FOR UPDATE to the next query of tx.
func Lock(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type Reference struct {
	ID   int64
	Type string
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&Investment{},
		&Rank{},
		&MemberRank{},
		&RankAchievement{},
		&Reward{},
		&ClubAchievement{},
		&Wallet{},
		&LedgerEntry{},
		&EPin{},
	)
}
