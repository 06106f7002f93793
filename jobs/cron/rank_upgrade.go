package cron

import (
	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
)

const RankUpgrade = "rank_upgrade"

type RankUpgradeJob struct {
	Engine *services.Engine
}

func (j *RankUpgradeJob) Process() {
	daily("02:00:00", func() { j.Execute() })
}

func (j *RankUpgradeJob) Execute() (*services.RankBatchResult, error) {
	var result *services.RankBatchResult

	err := jobs.Run(RankUpgrade, func() (jobs.Fields, error) {
		cfg, err := config.Compensation()
		if err != nil {
			return nil, err
		}

		result, err = j.Engine.CheckAllMembersForRankUpgrade(cfg)
		if err != nil {
			return nil, err
		}

		return jobs.Fields{
			"checked": result.Checked,
			"awarded": result.Awarded,
			"failed":  result.Failed,
		}, nil
	})

	return result, err
}
