package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"case-flow-backend/controllers"
	usershandler "case-flow-backend/lib/users"
	"case-flow-backend/models"
	apimodels "case-flow-backend/models/api"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("user", func(router fiber.Router) {
		router.Get("", controller.list)
	})
}

// @Summary Staff directory
// @Tags Users
// @Description Active staff, optionally filtered by role query param
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   role				query		string	false	"role filter"
// @Success 200 {object} apimodels.Response{data=[]authapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user [get]
func (c *userApiController) list(ctx *fiber.Ctx) error {
	var roles []models.UserRole
	if role := ctx.Query("role"); role != "" {
		roles = []models.UserRole{models.UserRole(role)}
	}
	list, err := usershandler.Instance.List(roles)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list users")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
