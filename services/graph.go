package services

import (
	"errors"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/sets/hashset"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

// frontierBatch is how many parents are expanded by one children query.
const frontierBatch = 500

// MemberGraph reads the sponsor tree. Members only store their sponsor id, children are
// found by querying sponsor_id, so the graph is never held as linked objects.
type MemberGraph struct {
	db       *gorm.DB
	maxNodes int
}

func NewMemberGraph(db *gorm.DB, maxNodes int) *MemberGraph {
	if maxNodes <= 0 {
		maxNodes = config.DefaultMaxTreeNodes
	}

	return &MemberGraph{db: db, maxNodes: maxNodes}
}

func (g *MemberGraph) DirectChildren(member_id int64) ([]int64, error) {
	var ids []int64

	err := g.db.Model(&models.Member{}).
		Where("sponsor_id = ?", member_id).
		Order("id asc").
		Pluck("id", &ids).Error

	return ids, err
}

func (g *MemberGraph) DirectActiveCount(member_id int64) (int64, error) {
	var count int64

	err := g.db.Model(&models.Member{}).
		Where("sponsor_id = ? AND status = ?", member_id, types.MemberStatusActive).
		Count(&count).Error

	return count, err
}

// Descendants returns every member below root in breadth-first order, root excluded.
// A visited set stops cycles in corrupted data; ErrTreeTooLarge is returned once more than
// maxNodes descendants are reached instead of returning a truncated list.
func (g *MemberGraph) Descendants(root int64) ([]int64, error) {
	visited := hashset.New(root)
	queue := linkedlistqueue.New()
	queue.Enqueue(root)

	descendants := make([]int64, 0)

	for !queue.Empty() {
		parents := make([]int64, 0, frontierBatch)
		for len(parents) < frontierBatch {
			value, ok := queue.Dequeue()
			if !ok {
				break
			}
			parents = append(parents, value.(int64))
		}

		var children []int64
		if err := g.db.Model(&models.Member{}).
			Where("sponsor_id IN ?", parents).
			Order("id asc").
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}

		for _, child := range children {
			if visited.Contains(child) {
				continue
			}

			if len(descendants) >= g.maxNodes {
				return nil, ErrTreeTooLarge
			}
			visited.Add(child)

			descendants = append(descendants, child)
			queue.Enqueue(child)
		}
	}

	return descendants, nil
}

func findMember(db *gorm.DB, member_id int64) (*models.Member, error) {
	member, err := models.FindMember(db, member_id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	} else if err != nil {
		return nil, err
	}

	return member, nil
}
