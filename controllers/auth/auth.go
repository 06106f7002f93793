package auth

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/models"
)

// Auth struct represents parsed jwt information.
type Auth struct {
	UID        string   `json:"uid"`
	State      string   `json:"state"`
	Email      string   `json:"email"`
	Username   string   `json:"username"`
	Role       string   `json:"role"`
	ReferralID string   `json:"referral_id"`
	Level      int32    `json:"level"`
	Audience   []string `json:"aud,omitempty"`

	jwt.StandardClaims
}

// ParseToken verifies an RS256 bearer token against JWT_PUBLIC_KEY (base64 encoded PEM).
func ParseToken(header string) (*Auth, error) {
	token := strings.Replace(header, "Bearer ", "", -1)

	public_key_pem, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_PUBLIC_KEY"))
	if err != nil {
		return nil, err
	}

	public_key, err := jwt.ParseRSAPublicKeyFromPEM(public_key_pem)
	if err != nil {
		return nil, err
	}

	var auth Auth
	if _, err = jwt.ParseWithClaims(token, &auth, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return public_key, nil
	}); err != nil {
		return nil, err
	}

	return &auth, nil
}

func GetCurrentUser(c *fiber.Ctx) *models.Member {
	member, _ := c.Locals("CurrentUser").(*models.Member)
	return member
}
