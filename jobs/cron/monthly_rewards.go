package cron

import (
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
	"github.com/zsmartex/mlm/types"
)

const MonthlyRewards = "monthly_rewards"

// MonthlyRewardsJob queues the leadership bonuses of the month that just ended.
type MonthlyRewardsJob struct {
	Engine *services.Engine
}

func (j *MonthlyRewardsJob) Process() {
	monthly("01:00:00", func(period types.Period) {
		j.Execute(period)
	})
}

func (j *MonthlyRewardsJob) Execute(period types.Period) (*services.LeadershipResult, error) {
	var result *services.LeadershipResult

	err := jobs.Run(MonthlyRewards, func() (jobs.Fields, error) {
		var err error

		result, err = j.Engine.GenerateMonthlyLeadershipRewards(period)
		if err != nil {
			return nil, err
		}

		total, _ := result.TotalAmount.Float64()

		return jobs.Fields{
			"period":       period.String(),
			"checked":      result.Checked,
			"created":      result.Created,
			"skipped":      result.Skipped,
			"total_amount": total,
		}, nil
	})

	return result, err
}
