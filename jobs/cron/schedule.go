package cron

import (
	"time"

	"github.com/jasonlvhit/gocron"

	"github.com/zsmartex/mlm/types"
)

// clock is the location every schedule and period decision is made in. Periods are UTC
// calendar months, so the scheduler runs on UTC too.
var clock = time.UTC

// daily blocks, running fn every day at the given hh:mm:ss (UTC).
func daily(at string, fn func()) {
	s := gocron.NewScheduler()
	s.ChangeLoc(clock)
	s.Every(1).Day().At(at).Do(fn)
	<-s.Start()
}

// monthly blocks, running fn on the first day of every month at the given hh:mm:ss (UTC)
// with the month that just ended.
func monthly(at string, fn func(period types.Period)) {
	daily(at, func() {
		if period, ok := ClosedPeriod(time.Now()); ok {
			fn(period)
		}
	})
}

// ClosedPeriod reports the month a monthly run at instant pays for. Only instants on the first
// day of a month are runs.
func ClosedPeriod(instant time.Time) (types.Period, bool) {
	instant = instant.In(clock)
	if instant.Day() != 1 {
		return types.Period{}, false
	}

	return types.PeriodOf(instant).Previous(), true
}
