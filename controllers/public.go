package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/controllers/helpers"
)

func GetTimestamp(c *fiber.Ctx) error {
	return c.Status(200).JSON(time.Now())
}

func GetRanks(c *fiber.Ctx) error {
	ranks, err := helpers.Engine().Rank.ListRanks()
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Ranks", ranks)
}
