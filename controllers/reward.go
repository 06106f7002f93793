package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
)

func GetRewards(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	errors := new(helpers.Errors)
	params := new(queries.RewardFilters)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if params.Limit == 0 {
		params.Limit = 100
	}

	if params.Page == 0 {
		params.Page = 1
	}

	rewards, err := helpers.Engine().Ledger.Rewards(CurrentUser.ID, params.State, params.Limit, params.Page)
	if err != nil {
		return helpers.Fail(c, err)
	}

	c.Response().Header.Add("page", strconv.FormatInt(int64(params.Page), 10))
	c.Response().Header.Add("per-page", strconv.FormatInt(int64(params.Limit), 10))

	return helpers.Success(c, "Rewards", rewards)
}

func GetRewardStats(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	stats, err := helpers.Engine().Ledger.RewardStats(CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Reward statistics", stats)
}
