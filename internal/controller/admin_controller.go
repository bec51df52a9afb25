package controller

import (
	"context"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// JobRunner triggers scheduled jobs on demand.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (interface{}, error)
	Jobs() []string
}

type IAdminController interface {
	RegisterRoutes(r fiber.Router)

	ListApplications(ctx *fiber.Ctx) error
	GetApplication(ctx *fiber.Ctx) error
	ReviewApplication(ctx *fiber.Ctx) error
	CompleteApplication(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error

	ReviewDocument(ctx *fiber.Ctx) error

	ListUsers(ctx *fiber.Ctx) error
	CreateUser(ctx *fiber.Ctx) error
	ApproveUser(ctx *fiber.Ctx) error
	BlockUser(ctx *fiber.Ctx) error

	CreatePurpose(ctx *fiber.Ctx) error
	DeactivatePurpose(ctx *fiber.Ctx) error

	ListCancellations(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error

	ListJobs(ctx *fiber.Ctx) error
	RunJob(ctx *fiber.Ctx) error
}

type adminController struct {
	service      service.IAdminService
	applications service.IApplicationService
	documents    service.IDocumentService
	users        service.IUserService
	purposes     service.IPurposeService
	jobs         JobRunner
	auth         fiber.Handler
}

func NewAdminController(
	service service.IAdminService,
	applications service.IApplicationService,
	documents service.IDocumentService,
	users service.IUserService,
	purposes service.IPurposeService,
	jobs JobRunner,
	auth fiber.Handler,
) IAdminController {
	return &adminController{
		service:      service,
		applications: applications,
		documents:    documents,
		users:        users,
		purposes:     purposes,
		jobs:         jobs,
		auth:         auth,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", c.auth, serverutils.RequireRole(entity.UserRoleAdmin))

	h.Get("/applications", c.ListApplications)
	h.Get("/applications/:id", c.GetApplication)
	h.Post("/applications/:id/review", c.ReviewApplication)
	h.Post("/applications/:id/complete", c.CompleteApplication)
	h.Get("/stats", c.GetStats)

	h.Post("/documents/:id/review", c.ReviewDocument)

	h.Get("/users", c.ListUsers)
	h.Post("/users", c.CreateUser)
	h.Post("/users/:id/approve", c.ApproveUser)
	h.Post("/users/:id/block", c.BlockUser)

	h.Post("/purposes", c.CreatePurpose)
	h.Delete("/purposes/:id", c.DeactivatePurpose)

	h.Get("/cancellations", c.ListCancellations)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	h.Get("/jobs", c.ListJobs)
	h.Post("/jobs/:name", c.RunJob)
}

func (c *adminController) ListApplications(ctx *fiber.Ctx) error {
	var q dto.ApplicationListQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.applications.AdminList(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Applications", res))
}

func (c *adminController) GetApplication(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.applications.Get(ctx.UserContext(), serverutils.CallerFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application", res))
}

func (c *adminController) ReviewApplication(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewApplicationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.applications.Review(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application reviewed", res))
}

func (c *adminController) CompleteApplication(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.applications.Complete(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Certificate issued", res))
}

func (c *adminController) GetStats(ctx *fiber.Ctx) error {
	res, err := c.applications.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) ReviewDocument(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewDocumentRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.documents.Review(ctx.UserContext(), id, entity.ReviewDecision(req.Decision), serverutils.UserIDFromCtx(ctx), req.Notes)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document reviewed", res))
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.users.List(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) CreateUser(ctx *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.users.CreateByAdmin(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User created", res))
}

func (c *adminController) ApproveUser(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.users.Approve(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User approved", res))
}

func (c *adminController) BlockUser(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.users.Block(ctx.UserContext(), serverutils.UserIDFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User blocked", res))
}

func (c *adminController) CreatePurpose(ctx *fiber.Ctx) error {
	var req dto.CreatePurposeRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	res, err := c.purposes.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Purpose created", res))
}

func (c *adminController) DeactivatePurpose(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.purposes.Deactivate(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Purpose deactivated", nil))
}

func (c *adminController) ListCancellations(ctx *fiber.Ctx) error {
	var q dto.CancellationListQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.service.ListCancellations(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation log", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var q dto.LogQuery
	if err := serverutils.ParseQuery(ctx, &q); err != nil {
		return err
	}
	res, err := c.service.GetSystemLogs(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Query("source", service.LogSourceApp), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", res))
}

func (c *adminController) ListJobs(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Jobs", c.jobs.Jobs()))
}

// RunJob runs a sweep immediately and returns its result, e.g.
// POST /api/admin/jobs/auto-cancel.
func (c *adminController) RunJob(ctx *fiber.Ctx) error {
	res, err := c.jobs.RunNow(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Job finished", res))
}
