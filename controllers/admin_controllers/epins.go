package admin_controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
)

func PostGenerateEPins(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	errors := new(helpers.Errors)
	params := new(queries.AdminGenerateEPinParams)
	if err := c.BodyParser(params); err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	pins, err := helpers.Engine().EPin.GenerateByAdmin(cfg, CurrentUser.ID, params.Amount, params.Count, params.ExpiryDays)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Generated "+strconv.Itoa(len(pins))+" E-Pins", controllers.EPinsToEntities(pins))
}

func PostBlockEPin(c *fiber.Ctx) error {
	pin, err := helpers.Engine().EPin.Block(c.Params("code"))
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pin blocked", controllers.EPinToEntity(pin))
}

func PostUnblockEPin(c *fiber.Ctx) error {
	pin, err := helpers.Engine().EPin.Unblock(c.Params("code"))
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pin unblocked", controllers.EPinToEntity(pin))
}

func GetEPins(c *fiber.Ctx) error {
	errors := new(helpers.Errors)
	params := new(queries.EPinFilters)
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

	pins, err := helpers.Engine().EPin.List(0, params.State, params.Limit, params.Page)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pins", controllers.EPinsToEntities(pins))
}

func GetEPinStats(c *fiber.Ctx) error {
	stats, err := helpers.Engine().EPin.Stats(0)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pin statistics", stats)
}
