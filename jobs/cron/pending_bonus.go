package cron

import (
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
)

const PendingBonus = "pending_bonus"

type PendingBonusJob struct {
	Engine *services.Engine
}

func (j *PendingBonusJob) Process() {
	daily("03:00:00", func() { j.Execute() })
}

func (j *PendingBonusJob) Execute() (*services.PayoutResult, error) {
	var result *services.PayoutResult

	err := jobs.Run(PendingBonus, func() (jobs.Fields, error) {
		var err error

		result, err = j.Engine.ProcessPendingBonuses()
		if err != nil {
			return nil, err
		}

		total, _ := result.TotalAmount.Float64()

		return jobs.Fields{
			"processed":    result.Processed,
			"skipped":      result.Skipped,
			"failed":       result.Failed,
			"total_amount": total,
		}, nil
	})

	return result, err
}
