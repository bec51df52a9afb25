package controller

import (
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPurposeController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type purposeController struct {
	service service.IPurposeService
}

func NewPurposeController(service service.IPurposeService) IPurposeController {
	return &purposeController{service: service}
}

// The catalog is public so applicants can read requirements before
// registering.
func (c *purposeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/purposes")
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
}

func (c *purposeController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Purposes", res))
}

func (c *purposeController) Get(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Purpose", res))
}
