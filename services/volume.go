package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

const sumBatch = 500

// VolumeAggregator sums qualifying business activity over parts of the sponsor tree.
// Results are memoized for the lifetime of the aggregator, so build one per evaluation.
type VolumeAggregator struct {
	db    *gorm.DB
	graph *MemberGraph
	from  time.Time
	to    time.Time
	legs  map[int64]decimal.Decimal
}

func NewVolumeAggregator(db *gorm.DB, graph *MemberGraph) *VolumeAggregator {
	return &VolumeAggregator{
		db:    db,
		graph: graph,
		legs:  make(map[int64]decimal.Decimal),
	}
}

// Between returns an aggregator that only counts activity created in [from, to).
func (v *VolumeAggregator) Between(from, to time.Time) *VolumeAggregator {
	return &VolumeAggregator{
		db:    v.db,
		graph: v.graph,
		from:  from,
		to:    to,
		legs:  make(map[int64]decimal.Decimal),
	}
}

func (v *VolumeAggregator) Graph() *MemberGraph {
	return v.graph
}

func (v *VolumeAggregator) PersonalVolume(member_id int64) (decimal.Decimal, error) {
	return v.sum([]int64{member_id})
}

// LegVolume is the volume of root and everything below it.
func (v *VolumeAggregator) LegVolume(root int64) (decimal.Decimal, error) {
	if volume, ok := v.legs[root]; ok {
		return volume, nil
	}

	descendants, err := v.graph.Descendants(root)
	if err != nil {
		return decimal.Zero, err
	}

	volume, err := v.sum(append([]int64{root}, descendants...))
	if err != nil {
		return decimal.Zero, err
	}

	v.legs[root] = volume

	return volume, nil
}

// TeamVolume is the volume of the downline of member, member's own activity excluded.
func (v *VolumeAggregator) TeamVolume(member_id int64) (decimal.Decimal, error) {
	leg, err := v.LegVolume(member_id)
	if err != nil {
		return decimal.Zero, err
	}

	personal, err := v.PersonalVolume(member_id)
	if err != nil {
		return decimal.Zero, err
	}

	return leg.Sub(personal), nil
}

func (v *VolumeAggregator) sum(member_ids []int64) (decimal.Decimal, error) {
	total := decimal.Zero

	for start := 0; start < len(member_ids); start += sumBatch {
		end := start + sumBatch
		if end > len(member_ids) {
			end = len(member_ids)
		}

		tx := v.qualifying().Where("member_id IN ?", member_ids[start:end])

		var part decimal.Decimal
		if err := tx.Select("COALESCE(SUM(amount), 0)").Row().Scan(&part); err != nil {
			return decimal.Zero, err
		}

		total = total.Add(part)
	}

	return total, nil
}

func (v *VolumeAggregator) qualifying() *gorm.DB {
	tx := v.db.Model(&models.Investment{}).Where("state IN ?", types.QualifyingActivityStates)

	if !v.from.IsZero() {
		tx = tx.Where("created_at >= ?", v.from)
	}
	if !v.to.IsZero() {
		tx = tx.Where("created_at < ?", v.to)
	}

	return tx
}

// Turnover is the company-wide qualifying activity created in [from, to).
func Turnover(db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := db.Model(&models.Investment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("state IN ? AND created_at >= ? AND created_at < ?", types.QualifyingActivityStates, from, to).
		Row().
		Scan(&total)

	return total, err
}
