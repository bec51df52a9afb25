package controller

import (
	"fmt"
	"net/url"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/service"

	"github.com/gofiber/fiber/v2"
)

const uploadField = "file"

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Withdraw(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
	auth    fiber.Handler
}

func NewDocumentController(service service.IDocumentService, auth fiber.Handler) IDocumentController {
	return &documentController{service: service, auth: auth}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/applications/:id/requirements/:reqId/document", c.auth, c.Upload)
	r.Get("/applications/:id/documents", c.auth, c.List)

	h := r.Group("/documents", c.auth)
	h.Get("/:id/file", c.Download)
	h.Delete("/:id", c.Withdraw)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	appID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	reqID, err := serverutils.ParamUUID(ctx, "reqId")
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		return apperror.Validation("a %q file field is required", uploadField)
	}
	f, err := fh.Open()
	if err != nil {
		return apperror.IO(err, "could not read the uploaded file")
	}
	defer f.Close()

	res, err := c.service.Upload(ctx.UserContext(), serverutils.CallerFromCtx(ctx), appID, reqID, entity.UploadFile{
		Filename: fh.Filename,
		MimeType: fh.Header.Get(fiber.HeaderContentType),
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document uploaded", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	appID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.ListForApplication(ctx.UserContext(), serverutils.CallerFromCtx(ctx), appID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", res))
}

func (c *documentController) Download(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}

	rc, doc, err := c.service.Open(ctx.UserContext(), serverutils.CallerFromCtx(ctx), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, doc.MimeType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename*=UTF-8''%s`, url.PathEscape(doc.OriginalFilename)))
	// fasthttp closes the stream once the body is written
	return ctx.SendStream(rc, int(doc.FileSize))
}

func (c *documentController) Withdraw(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Withdraw(ctx.UserContext(), serverutils.CallerFromCtx(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document withdrawn", res))
}
