package controller

import (
	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGenealogyController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	AddMember(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
}

type genealogyController struct {
	service service.IGenealogyService
	auth    fiber.Handler
}

func NewGenealogyController(service service.IGenealogyService, auth fiber.Handler) IGenealogyController {
	return &genealogyController{service: service, auth: auth}
}

func (c *genealogyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/genealogy", c.auth)
	admin := serverutils.RequireRole(entity.UserRoleAdmin)

	// Static paths before /:id
	h.Get("/search", c.Search)
	h.Get("/admin/stats", admin, c.Stats)

	h.Post("/", c.Create)
	h.Get("/:id", c.Get)
	h.Post("/:id/members", c.AddMember)
	h.Post("/:id/verify", admin, c.Verify)
}

func (c *genealogyController) Search(ctx *fiber.Ctx) error {
	var q dto.GenealogySearchQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.service.Search(ctx.UserContext(), q.Term)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Genealogy records", res))
}

func (c *genealogyController) Get(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Genealogy record", res))
}

func (c *genealogyController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateGenealogyRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Create(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Genealogy record created", res))
}

func (c *genealogyController) AddMember(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AddFamilyMemberRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.AddMember(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Family member added", res))
}

func (c *genealogyController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Genealogy statistics", res))
}

func (c *genealogyController) Verify(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Verify(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Genealogy record verified", res))
}
