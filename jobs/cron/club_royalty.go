package cron

import (
	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
	"github.com/zsmartex/mlm/types"
)

const ClubRoyalty = "club_royalty"

// ClubRoyaltyJob distributes the club royalty of the month that just ended.
type ClubRoyaltyJob struct {
	Engine *services.Engine
}

func (j *ClubRoyaltyJob) Process() {
	monthly("04:00:00", func(period types.Period) {
		j.Execute(period)
	})
}

func (j *ClubRoyaltyJob) Execute(period types.Period) (*services.RoyaltyResult, error) {
	var result *services.RoyaltyResult

	err := jobs.Run(ClubRoyalty, func() (jobs.Fields, error) {
		cfg, err := config.Compensation()
		if err != nil {
			return nil, err
		}

		result, err = j.Engine.RunMonthlyClubDistribution(cfg, period)
		if err != nil {
			return nil, err
		}

		turnover, _ := result.Turnover.Float64()
		total, _ := result.TotalAmount.Float64()

		return jobs.Fields{
			"period":       period.String(),
			"turnover":     turnover,
			"processed":    result.Processed,
			"pending":      result.Pending,
			"skipped":      result.Skipped,
			"total_amount": total,
		}, nil
	})

	return result, err
}
