package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"case-flow-backend/controllers"
	policyhandler "case-flow-backend/lib/policy"
	"case-flow-backend/middleware"
	apimodels "case-flow-backend/models/api"
	notifyapimodels "case-flow-backend/models/api/notifyapi"
)

type policyApiController struct {
	controllers.BaseAPIController
}

func InitPolicyApiRouters(app *fiber.App) {
	controller := policyApiController{}
	app.Route("notify_policy", func(router fiber.Router) {
		router.Use(middleware.AdminRequired())
		router.Get("", controller.get)
		router.Put("", controller.update)
	})
}

// @Summary Get notification policy
// @Tags Notification policy
// @Description Get the deployment notification policy
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=notifyapimodels.PolicyData}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notify_policy [get]
func (c *policyApiController) get(ctx *fiber.Ctx) error {
	view, err := policyhandler.Instance.Get()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get notification policy")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Update notification policy
// @Tags Notification policy
// @Description Replace the deployment notification policy
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 notifyapimodels.PolicyData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notify_policy [put]
func (c *policyApiController) update(ctx *fiber.Ctx) error {
	var payload notifyapimodels.PolicyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := policyhandler.Instance.Update(payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update notification policy")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
