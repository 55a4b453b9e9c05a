package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"case-flow-backend/config"
	authutils "case-flow-backend/lib/utils/auth-utils"
	"case-flow-backend/models"
)

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
	})
}

// AdminRequired rejects any caller whose token role is not the admin/GM role.
func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUserRole(ctx).IsAdmin() {
			return ctx.SendStatus(fiber.StatusForbidden)
		}
		return ctx.Next()
	}
}

func GetUserID(ctx *fiber.Ctx) string {
	value, _ := authutils.GetClaims(ctx)["sub"].(string)
	return value
}

func GetUserName(ctx *fiber.Ctx) string {
	value, _ := authutils.GetClaims(ctx)["name"].(string)
	return value
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	value, _ := authutils.GetClaims(ctx)["role"].(string)
	return models.UserRole(value)
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		ID:   GetUserID(ctx),
		Name: GetUserName(ctx),
	}
}
