package daemons

import (
	"time"

	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/jobs/cron"
	"github.com/zsmartex/mlm/services"
)

type CronJob struct {
	Running bool
	Jobs    []jobs.Job
}

func NewCronJob(engine *services.Engine) *CronJob {
	jobs := []jobs.Job{
		&cron.ClubStatusJob{Engine: engine},
		&cron.RankUpgradeJob{Engine: engine},
		&cron.PendingBonusJob{Engine: engine},
		&cron.MonthlyRewardsJob{Engine: engine},
		&cron.ClubRoyaltyJob{Engine: engine},
	}

	return &CronJob{Running: true, Jobs: jobs}
}

func (c *CronJob) Stop() {
	c.Running = false
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		go c.Process(job)
	}

	for c.Running {
		time.Sleep(1 * time.Second)
	}
}

func (c *CronJob) Process(job jobs.Job) {
	for c.Running {
		job.Process()
	}
}
