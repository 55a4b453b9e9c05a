package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"case-flow-backend/controllers"
	filestorage "case-flow-backend/lib/file-storage"
	apimodels "case-flow-backend/models/api"
)

type bomApiController struct {
	controllers.BaseAPIController
}

func InitBomApiRouters(app *fiber.App) {
	controller := bomApiController{}
	app.Route("case/:id/bom", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.upload)
		router.Get(":file_name", controller.download)
	})
}

// @Summary BOM file list
// @Tags BOM
// @Description List BOM attachments of a case
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/bom [get]
func (c *bomApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := filestorage.Instance.ListBomFiles(ctx.Context(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list BOM files")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Upload BOM file
// @Tags BOM
// @Description Attach a BOM file to a case
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Param   file				formData	file	true	"file"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/bom [post]
func (c *bomApiController) upload(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read uploaded file")
	}
	defer file.Close()
	err = filestorage.Instance.UploadBomFile(ctx.Context(), id, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to store BOM file")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Download BOM file
// @Tags BOM
// @Description Download one BOM attachment
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Param   file_name   		path    string	true	"file name"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/bom/{file_name} [get]
func (c *bomApiController) download(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileName := ctx.Params("file_name")
	body, err := filestorage.Instance.GetBomFile(ctx.Context(), id, fileName)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read BOM file")
	}
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}
