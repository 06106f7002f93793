package models

import (
	"time"

	"github.com/volatiletech/null"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/models/datatypes"
	"github.com/zsmartex/mlm/types"
)

type Member struct {
	ID            int64                  `json:"id" gorm:"primaryKey"`
	UID           string                 `json:"uid" gorm:"uniqueIndex"`
	Username      string                 `json:"username"`
	Email         string                 `json:"email"`
	Role          string                 `json:"role" gorm:"default:member"`
	Status        types.MemberStatus     `json:"status" gorm:"index;default:INACTIVE"`
	SponsorID     null.Int64             `json:"sponsor_id" gorm:"index"`
	ClubTier      types.ClubTier         `json:"club_tier" gorm:"default:NONE"`
	ClubProgress  datatypes.ClubProgress `json:"club_progress"`
	ClubUpdatedAt null.Time              `json:"club_updated_at"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func (m *Member) IsActive() bool {
	return m.Status == types.MemberStatusActive
}

func (m *Member) IsAdmin() bool {
	return m.Role == "admin" || m.Role == "superadmin"
}

func FindMember(tx *gorm.DB, id int64) (*Member, error) {
	var member *Member

	if err := tx.First(&member, id).Error; err != nil {
		return nil, err
	}

	return member, nil
}

// ActiveMemberIDs lists ACTIVE members in id order.
func ActiveMemberIDs(tx *gorm.DB) ([]int64, error) {
	var ids []int64

	err := tx.Model(&Member{}).
		Where("status = ?", types.MemberStatusActive).
		Order("id asc").
		Pluck("id", &ids).Error

	return ids, err
}
