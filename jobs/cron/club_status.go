package cron

import (
	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
)

const ClubStatus = "club_status"

type ClubStatusJob struct {
	Engine *services.Engine
}

func (j *ClubStatusJob) Process() {
	daily("01:30:00", func() { j.Execute() })
}

func (j *ClubStatusJob) Execute() (*services.ClubBatchResult, error) {
	var result *services.ClubBatchResult

	err := jobs.Run(ClubStatus, func() (jobs.Fields, error) {
		cfg, err := config.Compensation()
		if err != nil {
			return nil, err
		}

		result, err = j.Engine.UpdateAllClubStatuses(cfg)
		if err != nil {
			return nil, err
		}

		return jobs.Fields{
			"checked":  result.Checked,
			"upgraded": result.Upgraded,
			"failed":   result.Failed,
		}, nil
	})

	return result, err
}
