package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zsmartex/mlm/types"
)

func TestClosedPeriod(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)

	cases := []struct {
		name    string
		instant time.Time
		period  types.Period
		due     bool
	}{
		{"utc run on the first", time.Date(2026, time.November, 1, 1, 0, 0, 0, time.UTC), types.Period{Year: 2026, Month: 10}, true},
		{"january pays december", time.Date(2027, time.January, 1, 4, 0, 0, 0, time.UTC), types.Period{Year: 2026, Month: 12}, true},
		{"east of utc after midnight utc", time.Date(2026, time.November, 1, 9, 30, 0, 0, kolkata), types.Period{Year: 2026, Month: 10}, true},
		{"east of utc before midnight utc", time.Date(2026, time.November, 1, 1, 0, 0, 0, kolkata), types.Period{}, false},
		{"west of utc on the last day", time.Date(2026, time.October, 31, 22, 0, 0, 0, time.FixedZone("EST", -5*3600)), types.Period{Year: 2026, Month: 10}, true},
		{"mid month", time.Date(2026, time.November, 15, 1, 0, 0, 0, time.UTC), types.Period{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			period, due := ClosedPeriod(c.instant)
			assert.Equal(t, c.due, due)
			assert.Equal(t, c.period, period)
		})
	}
}
