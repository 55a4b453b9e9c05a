package apiv1

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"case-flow-backend/controllers"
	"case-flow-backend/lib/caseflow"
	pdfexport "case-flow-backend/lib/export/pdf"
	xlsexport "case-flow-backend/lib/export/xls"
	"case-flow-backend/middleware"
	apimodels "case-flow-backend/models/api"
	caseapimodels "case-flow-backend/models/api/caseapi"
)

// HeaderDraftKey carries the client draft-session key on create requests.
const HeaderDraftKey = "X-Draft-Key"

type caseApiController struct {
	controllers.BaseAPIController
}

func InitCaseApiRouters(app *fiber.App) {
	controller := caseApiController{}
	app.Route("case", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("export", controller.export)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("transitions", controller.transitions)
			idRoute.Get("card", controller.card)
			idRoute.Put("status", controller.changeStatus)
			idRoute.Post("renotify", controller.renotify)
		})
	})
}

// @Summary Create case
// @Tags Case
// @Description Create a case or merge into the draft under X-Draft-Key
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   X-Draft-Key			header		string	false	"draft session key"
// @Param	body body	 caseapimodels.CaseCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=caseapimodels.CaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case [post]
func (c *caseApiController) create(ctx *fiber.Ctx) error {
	var payload caseapimodels.CaseCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	draftKey := ctx.Get(HeaderDraftKey)
	view, created, err := caseflow.Instance.Create(middleware.GetActor(ctx), draftKey, payload)
	if err != nil {
		if caseflow.IsDomainError(err) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create case")
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return ctx.Status(status).JSON(apimodels.NewResponse(view))
}

// @Summary Case list
// @Tags Case
// @Description Case list with filter and paging
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 caseapimodels.CaseFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]caseapimodels.CaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/list [post]
func (c *caseApiController) list(ctx *fiber.Ctx) error {
	var filter caseapimodels.CaseFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := caseflow.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list cases")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Get case
// @Tags Case
// @Description Get case with the full status history
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=caseapimodels.CaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id} [get]
func (c *caseApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := caseflow.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get case")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Update case
// @Tags Case
// @Description Update case data, optionally re-alerting the current audience
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Param	body body	 caseapimodels.CaseEditData	true	"request body"
// @Success 200 {object} apimodels.Response{data=caseapimodels.CaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id} [put]
func (c *caseApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload caseapimodels.CaseEditData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := caseflow.Instance.Update(id, middleware.GetActor(ctx), payload)
	if err != nil {
		if caseflow.IsDomainError(err) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update case")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Delete draft
// @Tags Case
// @Description Delete a draft case
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id} [delete]
func (c *caseApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = caseflow.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete case")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Allowed transitions
// @Tags Case
// @Description Statuses the case can move to from its current status
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response{data=[]string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/transitions [get]
func (c *caseApiController) transitions(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := caseflow.Instance.AllowedTransitions(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get allowed transitions")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Change status
// @Tags Case
// @Description Apply one lifecycle transition
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Param	body body	 caseapimodels.StatusChangeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=caseapimodels.CaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/status [put]
func (c *caseApiController) changeStatus(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload caseapimodels.StatusChangeData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := caseflow.Instance.ChangeStatus(id, payload, middleware.GetActor(ctx))
	if err != nil {
		if caseflow.IsDomainError(err) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to change case status")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Renotify
// @Tags Case
// @Description Re-alert the current status audience without a history change
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/renotify [post]
func (c *caseApiController) renotify(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = caseflow.Instance.Renotify(id, middleware.GetActor(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to renotify")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Export cases
// @Tags Case
// @Description Export the filtered case list as xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 caseapimodels.CaseFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/export [post]
func (c *caseApiController) export(ctx *fiber.Ctx) error {
	var filter caseapimodels.CaseFilter
	if err := c.BodyParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	filter.Limit = 100
	list, _, err := caseflow.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list cases for export")
	}
	buf, err := xlsexport.Instance.ExportCaseList(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to build xlsx")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="cases.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Case card
// @Tags Case
// @Description Case summary card as pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string	true	"rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/case/{id}/card [get]
func (c *caseApiController) card(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := caseflow.Instance.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get case")
	}
	pdfFile, err := pdfexport.GenerateCaseCard(*view)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to build pdf")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="case-%s.pdf"`, view.RefNo))
	return ctx.Status(fiber.StatusOK).Send(pdfFile)
}
