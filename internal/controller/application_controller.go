package controller

import (
	"ncip-portal/internal/dto"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IApplicationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type applicationController struct {
	service service.IApplicationService
	auth    fiber.Handler
}

func NewApplicationController(service service.IApplicationService, auth fiber.Handler) IApplicationController {
	return &applicationController{service: service, auth: auth}
}

func (c *applicationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/applications", c.auth)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
	h.Post("/:id/cancel", c.Cancel)
}

func (c *applicationController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.CallerFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Application submitted", res))
}

func (c *applicationController) List(ctx *fiber.Ctx) error {
	var q dto.ApplicationListQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.ListMine(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Applications", res))
}

func (c *applicationController) Get(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), serverutils.CallerFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application", res))
}

func (c *applicationController) Cancel(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CancelApplicationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Cancel(ctx.UserContext(), serverutils.CallerFromCtx(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application cancelled", res))
}
