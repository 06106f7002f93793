package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/entities"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/services"
)

func ClubStatusToEntity(cfg *config.CompensationConfig, member *models.Member, evaluation *services.ClubEvaluation, achievements []*models.ClubAchievement) *entities.ClubStatus {
	status := &entities.ClubStatus{
		Tier:         evaluation.Tier,
		Qualified:    evaluation.Qualified,
		TotalVolume:  evaluation.TotalVolume,
		Legs:         evaluation.Legs,
		StoredTier:   member.ClubTier,
		Achievements: make([]entities.ClubAchievement, 0, len(achievements)),
	}

	if member.ClubUpdatedAt.Valid {
		status.EvaluatedAt = &member.ClubUpdatedAt.Time
	}

	for _, tier := range cfg.ClubTiers {
		if tier.Tier.HigherThan(evaluation.Tier) {
			cutoff := tier.Cutoff
			status.NextTier = tier.Tier
			status.NextCutoff = &cutoff
			break
		}
	}

	for _, achievement := range achievements {
		status.Achievements = append(status.Achievements, entities.ClubAchievement{
			Tier:       achievement.Tier,
			Volume:     achievement.TotalVolume,
			AchievedAt: achievement.AchievedAt,
		})
	}

	return status
}

func GetClubStatus(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	evaluation, err := helpers.Engine().Club.EvaluateClub(cfg, CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	var achievements []*models.ClubAchievement
	config.DataBase.Where("member_id = ?", CurrentUser.ID).Order("achieved_at asc").Find(&achievements)

	return helpers.Success(c, "Club status", ClubStatusToEntity(cfg, CurrentUser, evaluation, achievements))
}

// PostClubRefresh re-evaluates and stores the club status of the caller.
func PostClubRefresh(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	cfg, err := config.Compensation()
	if err != nil {
		return helpers.Fail(c, err)
	}

	update, err := helpers.Engine().Club.UpdateClubStatus(cfg, CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	message := "Club status updated"
	if update.Upgraded {
		message = "Congratulations! You reached the " + string(update.Tier) + " club"
	}

	return helpers.Success(c, message, update)
}
