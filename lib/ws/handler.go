package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	connectionhub "case-flow-backend/lib/ws/hub/connection-hub"
	"case-flow-backend/middleware"
)

func InitWs(app *fiber.App) {
	app.Use("", func(ctx *fiber.Ctx) error {
		userID := middleware.GetUserID(ctx)
		ctx.Locals("userID", userID)
		return ctx.Next()
	})
	app.Get("/", websocket.New(feedHandler))
}

// @Summary Live notification feed
// @Tags Websocket
// @Description Live notification feed
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws [get]
func feedHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	if userID == "" {
		c.Close()
		return
	}
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID)
	}()
	// the hub owns writes; this loop only watches for disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
