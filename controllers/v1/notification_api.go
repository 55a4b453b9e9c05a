package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"case-flow-backend/controllers"
	"case-flow-backend/db"
	inappstore "case-flow-backend/lib/notify/inapp-store"
	"case-flow-backend/middleware"
	apimodels "case-flow-backend/models/api"
	notifyapimodels "case-flow-backend/models/api/notifyapi"
)

type notificationApiController struct {
	controllers.BaseAPIController
	store inappstore.Provider
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{
		store: inappstore.NewInstance(db.DB),
	}
	app.Route("notification", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Get("unread_count", controller.unreadCount)
		router.Put("read_all", controller.readAll)
		router.Put(":id/read", controller.read)
	})
}

type notificationFilter struct {
	OnlyUnread bool `json:"only_unread"`
	Limit      int  `json:"limit"`
}

// @Summary Notification feed
// @Tags Notifications
// @Description Current user's notification feed, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 notificationFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]notifyapimodels.NotificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notification/list [post]
func (c *notificationApiController) list(ctx *fiber.Ctx) error {
	var filter notificationFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	list, err := c.store.List(middleware.GetUserID(ctx), filter.OnlyUnread, filter.Limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list notifications")
	}
	views := make([]notifyapimodels.NotificationView, 0, len(list))
	for _, rec := range list {
		views = append(views, notifyapimodels.NotificationConvert(rec))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(views))
}

// @Summary Unread count
// @Tags Notifications
// @Description Number of unread feed rows for the current user
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=int64}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notification/unread_count [get]
func (c *notificationApiController) unreadCount(ctx *fiber.Ctx) error {
	count, err := c.store.UnreadCount(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to count unread notifications")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(count))
}

// @Summary Mark read
// @Tags Notifications
// @Description Mark one notification as read
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notification/{id}/read [put]
func (c *notificationApiController) read(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = c.store.MarkRead(middleware.GetUserID(ctx), id); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Mark all read
// @Tags Notifications
// @Description Mark every unread notification of the current user as read
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notification/read_all [put]
func (c *notificationApiController) readAll(ctx *fiber.Ctx) error {
	if err := c.store.MarkAllRead(middleware.GetUserID(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to mark notifications read")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
