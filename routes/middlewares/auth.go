package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/volatiletech/null"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/services"
)

var (
	AuthzInvalidSession = "authz.invalid_session"
	JwtDecodeAndVerify  = "jwt.decode_and_verify"
	ServerInternalError = "server.internal_error"
)

// Authenticate loads the member behind the bearer token, registering it (and its wallet)
// on first sight. The referral id of a new member becomes its sponsor.
func Authenticate(c *fiber.Ctx) error {
	token := c.Get("Authorization")

	if len(token) == 0 {
		return c.Status(401).JSON(fiber.Map{
			"errors": []string{AuthzInvalidSession},
		})
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"errors": []string{JwtDecodeAndVerify},
		})
	}

	member := &models.Member{}
	attrs := &models.Member{
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
	}

	if len(claims.ReferralID) > 0 && claims.ReferralID != claims.UID {
		var sponsor *models.Member
		if err := config.DataBase.Where("uid = ?", claims.ReferralID).First(&sponsor).Error; err == nil {
			attrs.SponsorID = null.Int64From(sponsor.ID)
		}
	}

	if err := config.DataBase.Where("uid = ?", claims.UID).Attrs(attrs).FirstOrCreate(member).Error; err != nil {
		config.Logger.Errorf("Failed to load member %s: %v", claims.UID, err)
		return c.Status(500).JSON(fiber.Map{
			"errors": []string{ServerInternalError},
		})
	}

	if member.Role != claims.Role || member.Email != claims.Email {
		if err := config.DataBase.Model(member).Updates(map[string]interface{}{"role": claims.Role, "email": claims.Email}).Error; err != nil {
			config.Logger.Errorf("Failed to sync member %s: %v", claims.UID, err)
		}
	}

	if _, err := services.NewLedgerService(config.DataBase).EnsureWallet(member.ID); err != nil {
		config.Logger.Errorf("Failed to open wallet for member %d: %v", member.ID, err)
		return c.Status(500).JSON(fiber.Map{
			"errors": []string{ServerInternalError},
		})
	}

	c.Locals("CurrentUser", member)

	return c.Next()
}
