package controller

import (
	"ncip-portal/internal/dto"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	UpdateMe(ctx *fiber.Ctx) error
}

type authController struct {
	service     service.IAuthService
	userService service.IUserService
	auth        fiber.Handler
}

func NewAuthController(service service.IAuthService, userService service.IUserService, auth fiber.Handler) IAuthController {
	return &authController{service: service, userService: userService, auth: auth}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Get("/me", c.auth, c.Me)
	h.Put("/me", c.auth, c.UpdateMe)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Registration received. An administrator will review your account.", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	res, err := c.userService.GetProfile(ctx.UserContext(), serverutils.UserIDFromCtx(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *authController) UpdateMe(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.userService.UpdateProfile(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
