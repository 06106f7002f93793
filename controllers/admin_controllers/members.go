package admin_controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
)

func memberID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func invalidMember(c *fiber.Ctx) error {
	return c.Status(422).JSON(helpers.Errors{
		Errors: []string{"admin.member.invalid_id"},
	})
}

func GetClubStats(c *fiber.Ctx) error {
	stats, err := helpers.Engine().Club.ClubStats()
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Club statistics", stats)
}

func GetMemberClub(c *fiber.Ctx) error {
	member_id, ok := memberID(c)
	if !ok {
		return invalidMember(c)
	}

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	evaluation, err := helpers.Engine().Club.EvaluateClub(cfg, member_id)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Club evaluation", evaluation)
}

func PostMemberClub(c *fiber.Ctx) error {
	member_id, ok := memberID(c)
	if !ok {
		return invalidMember(c)
	}

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	update, err := helpers.Engine().Club.UpdateClubStatus(cfg, member_id)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Club status updated", update)
}

func GetMemberRankQualification(c *fiber.Ctx) error {
	member_id, ok := memberID(c)
	if !ok {
		return invalidMember(c)
	}

	rank_id, err := strconv.ParseInt(c.Params("rank_id"), 10, 64)
	if err != nil {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"admin.rank.invalid_rank_id"},
		})
	}

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	qualification, err := helpers.Engine().Rank.CheckRankQualification(cfg, member_id, rank_id)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Rank qualification", qualification)
}

func PostMemberRankCheck(c *fiber.Ctx) error {
	member_id, ok := memberID(c)
	if !ok {
		return invalidMember(c)
	}

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	rank, err := helpers.Engine().Rank.CheckAndAwardRanks(cfg, member_id)
	if err != nil {
		return helpers.Fail(c, err)
	}

	if rank == nil {
		return helpers.Success(c, "No new rank achieved", nil)
	}

	return helpers.Success(c, "Member achieved "+rank.Name, rank)
}

func PostAssignRank(c *fiber.Ctx) error {
	member_id, ok := memberID(c)
	if !ok {
		return invalidMember(c)
	}

	errors := new(helpers.Errors)
	params := new(queries.AssignRankParams)
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

	assignment, err := helpers.Engine().Rank.AssignRankManually(cfg, member_id, params.RankID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Rank assigned", assignment)
}
