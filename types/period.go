package types

import (
	"fmt"
	"time"
)

func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// Start is the first instant of the month in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month, exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
