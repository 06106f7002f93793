package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/zsmartex/mlm/controllers"
	"github.com/zsmartex/mlm/controllers/admin_controllers"
	"github.com/zsmartex/mlm/routes/middlewares"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Use(logger.New())

	api_v2_public := app.Group("/api/v2/public")
	{
		api_v2_public.Get("/timestamp", controllers.GetTimestamp)
		api_v2_public.Get("/ranks", controllers.GetRanks)
	}

	api_v2_mlm := app.Group("/api/v2/mlm", middlewares.Authenticate)
	{
		api_v2_mlm.Get("/wallet", controllers.GetWallet)
		api_v2_mlm.Get("/wallet/history", controllers.GetWalletHistory)

		api_v2_mlm.Get("/club", controllers.GetClubStatus)
		api_v2_mlm.Post("/club/refresh", controllers.PostClubRefresh)

		api_v2_mlm.Get("/rank", controllers.GetRankProgress)
		api_v2_mlm.Post("/rank/check", controllers.PostRankCheck)
		api_v2_mlm.Get("/rank/achievements", controllers.GetRankAchievements)

		api_v2_mlm.Get("/rewards", controllers.GetRewards)
		api_v2_mlm.Get("/rewards/stats", controllers.GetRewardStats)

		api_v2_mlm.Get("/epins", controllers.GetEPins)
		api_v2_mlm.Get("/epins/stats", controllers.GetEPinStats)
		api_v2_mlm.Get("/epins/:code", controllers.GetVerifyEPin)
		api_v2_mlm.Post("/epins", controllers.PostGenerateEPins)
		api_v2_mlm.Post("/epins/activate", controllers.PostActivateEPin)
	}

	api_v2_admin := app.Group("/api/v2/admin", middlewares.Authenticate, middlewares.AdminVaildator)
	{
		api_v2_admin.Post("/jobs/rank_upgrade", admin_controllers.PostRankUpgrade)
		api_v2_admin.Post("/jobs/pending_bonus", admin_controllers.PostPendingBonus)
		api_v2_admin.Post("/jobs/club_status", admin_controllers.PostClubStatus)
		api_v2_admin.Post("/jobs/monthly_rewards", admin_controllers.PostMonthlyRewards)
		api_v2_admin.Post("/jobs/club_royalty", admin_controllers.PostClubRoyalty)

		api_v2_admin.Get("/clubs/stats", admin_controllers.GetClubStats)
		api_v2_admin.Get("/members/:id/club", admin_controllers.GetMemberClub)
		api_v2_admin.Post("/members/:id/club", admin_controllers.PostMemberClub)
		api_v2_admin.Get("/members/:id/ranks/:rank_id", admin_controllers.GetMemberRankQualification)
		api_v2_admin.Post("/members/:id/rank/check", admin_controllers.PostMemberRankCheck)
		api_v2_admin.Post("/members/:id/rank", admin_controllers.PostAssignRank)

		api_v2_admin.Get("/epins", admin_controllers.GetEPins)
		api_v2_admin.Get("/epins/stats", admin_controllers.GetEPinStats)
		api_v2_admin.Post("/epins", admin_controllers.PostGenerateEPins)
		api_v2_admin.Post("/epins/:code/block", admin_controllers.PostBlockEPin)
		api_v2_admin.Post("/epins/:code/unblock", admin_controllers.PostUnblockEPin)
	}

	return app
}
