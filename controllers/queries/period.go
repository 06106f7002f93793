package queries

import (
	"time"

	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/types"
)

// PeriodParams selects a calendar month; missing values fall back to the current month.
type PeriodParams struct {
	Year  int `json:"year" form:"year" query:"year" validate:"uint"`
	Month int `json:"month" form:"month" query:"month" validate:"ValidateMonth"`
}

func (p PeriodParams) ValidateMonth(month int) bool {
	return month >= 0 && month <= 12
}

func (p PeriodParams) Period() types.Period {
	period := types.PeriodOf(time.Now())

	if p.Year > 0 {
		period.Year = p.Year
	}
	if p.Month > 0 {
		period.Month = p.Month
	}

	return period
}

func (p PeriodParams) Messages() map[string]string {
	return helpers.VaildateMessage("admin.period")
}

func (p PeriodParams) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}
