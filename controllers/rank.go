package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/helpers"
)

func GetRankProgress(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	progress, err := helpers.Engine().Rank.RankProgress(cfg, CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Rank progress", progress)
}

func PostRankCheck(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	rank, err := helpers.Engine().Rank.CheckAndAwardRanks(cfg, CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	if rank == nil {
		return helpers.Success(c, "No new rank achieved", nil)
	}

	return helpers.Success(c, "Congratulations! You achieved "+rank.Name, rank)
}

func GetRankAchievements(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	achievements, err := helpers.Engine().Rank.Achievements(CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Rank achievements", achievements)
}
