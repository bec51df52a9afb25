package controller

import (
	"ncip-portal/internal/dto"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	UnreadCount(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkAllRead(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type notificationController struct {
	service service.INotificationService
	auth    fiber.Handler
}

func NewNotificationController(service service.INotificationService, auth fiber.Handler) INotificationController {
	return &notificationController{service: service, auth: auth}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notifications", c.auth)
	h.Get("/", c.List)
	h.Get("/unread-count", c.UnreadCount)
	h.Put("/mark-all-read", c.MarkAllRead)
	h.Put("/:id/read", c.MarkRead)
	h.Delete("/:id", c.Delete)
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	var q dto.NotificationListQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.service.ListForUser(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (c *notificationController) UnreadCount(ctx *fiber.Ctx) error {
	res, err := c.service.UnreadCount(ctx.UserContext(), serverutils.UserIDFromCtx(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Unread notifications", res))
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.MarkRead(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	res, err := c.service.MarkAllRead(ctx.UserContext(), serverutils.UserIDFromCtx(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("All notifications marked as read", res))
}

func (c *notificationController) Delete(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.service.Delete(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Notification deleted", nil))
}
