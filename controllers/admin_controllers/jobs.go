package admin_controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
	"github.com/zsmartex/mlm/jobs/cron"
)

// Manual triggers go through the cron jobs so they share the scheduler's run lock.

func parsePeriod(c *fiber.Ctx) (*queries.PeriodParams, *helpers.Errors) {
	errors := new(helpers.Errors)
	params := new(queries.PeriodParams)
	if err := c.QueryParser(params); err != nil {
		errors.Errors = append(errors.Errors, "server.method.invalid_query")
		return nil, errors
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return nil, errors
	}

	return params, nil
}

func PostRankUpgrade(c *fiber.Ctx) error {
	job := &cron.RankUpgradeJob{Engine: helpers.Engine()}

	result, err := job.Execute()
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Rank upgrade check completed", result)
}

func PostPendingBonus(c *fiber.Ctx) error {
	job := &cron.PendingBonusJob{Engine: helpers.Engine()}

	result, err := job.Execute()
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Pending bonuses processed", result)
}

func PostClubStatus(c *fiber.Ctx) error {
	job := &cron.ClubStatusJob{Engine: helpers.Engine()}

	result, err := job.Execute()
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Club statuses updated", result)
}

func PostMonthlyRewards(c *fiber.Ctx) error {
	params, errors := parsePeriod(c)
	if errors != nil {
		return c.Status(422).JSON(errors)
	}

	job := &cron.MonthlyRewardsJob{Engine: helpers.Engine()}

	result, err := job.Execute(params.Period())
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Monthly leadership rewards generated for "+result.Period.String(), result)
}

func PostClubRoyalty(c *fiber.Ctx) error {
	params, errors := parsePeriod(c)
	if errors != nil {
		return c.Status(422).JSON(errors)
	}

	job := &cron.ClubRoyaltyJob{Engine: helpers.Engine()}

	result, err := job.Execute(params.Period())
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Club royalty distributed for "+result.Period.String(), result)
}
