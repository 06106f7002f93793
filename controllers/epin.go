package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/entities"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/services"
)

func EPinToEntity(pin *models.EPin) *entities.EPin {
	entity := &entities.EPin{
		ID:        pin.ID,
		Code:      pin.Code,
		Amount:    pin.Amount,
		Fee:       pin.Fee,
		State:     pin.State,
		Source:    pin.Source,
		CreatedAt: pin.CreatedAt,
	}

	if pin.ConsumerID.Valid {
		entity.ActivatedBy = &pin.ConsumerID.Int64
	}
	if pin.ActivatedMemberID.Valid {
		entity.ActivatedTo = &pin.ActivatedMemberID.Int64
	}
	if pin.ExpiresAt.Valid {
		entity.ExpiresAt = &pin.ExpiresAt.Time
	}
	if pin.UsedAt.Valid {
		entity.UsedAt = &pin.UsedAt.Time
	}

	return entity
}

func EPinsToEntities(pins []*models.EPin) []*entities.EPin {
	pin_entities := make([]*entities.EPin, 0, len(pins))
	for _, pin := range pins {
		pin_entities = append(pin_entities, EPinToEntity(pin))
	}

	return pin_entities
}

func PostGenerateEPins(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	errors := new(helpers.Errors)
	params := new(queries.GenerateEPinParams)
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

	generation, err := helpers.Engine().EPin.GenerateFromWallet(cfg, CurrentUser.ID, params.Amount, params.Count)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Generated "+strconv.Itoa(len(generation.Pins))+" E-Pins", fiber.Map{
		"pins":         EPinsToEntities(generation.Pins),
		"total_amount": generation.TotalAmount,
		"fee":          generation.Fee,
		"total_cost":   generation.TotalCost,
	})
}

func GetVerifyEPin(c *fiber.Ctx) error {
	verification, err := helpers.Engine().EPin.Verify(c.Params("code"))
	if err != nil {
		return helpers.Fail(c, err)
	}

	entity := &entities.EPinVerification{
		Valid:  verification.Valid,
		Reason: verification.Reason,
		Amount: verification.Pin.Amount,
		State:  verification.Pin.State,
	}
	if verification.Pin.ExpiresAt.Valid {
		entity.ExpiresAt = &verification.Pin.ExpiresAt.Time
	}

	return helpers.Success(c, "E-Pin verification", entity)
}

func PostActivateEPin(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	errs := new(helpers.Errors)
	params := new(queries.ActivateEPinParams)
	if err := c.BodyParser(params); err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_message_body"},
		})
	}

	helpers.Vaildate(params, errs)
	if errs.Size() > 0 {
		return c.Status(422).JSON(errs)
	}

	target_id := CurrentUser.ID
	if len(params.MemberUID) > 0 {
		var target *models.Member
		if err := config.DataBase.Where("uid = ?", params.MemberUID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.Fail(c, services.ErrMemberNotFound)
			}
			return helpers.Fail(c, err)
		}
		target_id = target.ID
	}

	activation, err := helpers.Engine().EPin.Activate(params.Code, CurrentUser.ID, target_id)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pin activated", fiber.Map{
		"pin":   EPinToEntity(activation.Pin),
		"entry": LedgerEntryToEntity(activation.Entry),
	})
}

func GetEPins(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

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

	pins, err := helpers.Engine().EPin.List(CurrentUser.ID, params.State, params.Limit, params.Page)
	if err != nil {
		return helpers.Fail(c, err)
	}

	c.Response().Header.Add("page", strconv.FormatInt(int64(params.Page), 10))
	c.Response().Header.Add("per-page", strconv.FormatInt(int64(params.Limit), 10))

	return helpers.Success(c, "E-Pins", EPinsToEntities(pins))
}

func GetEPinStats(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	stats, err := helpers.Engine().EPin.Stats(CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "E-Pin statistics", stats)
}
