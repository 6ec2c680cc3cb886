package controller

import (
	"mindmate-be/internal/dto"
	"mindmate-be/internal/pkg/serverutils"
	"mindmate-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICompanionController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	PostMessage(ctx *fiber.Ctx) error
	RenameSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetTranscript(ctx *fiber.Ctx) error
}

type companionController struct {
	companionService service.ICompanionService
	rateLimiter      *serverutils.RateLimiter
}

func NewCompanionController(companionService service.ICompanionService, rateLimiter *serverutils.RateLimiter) ICompanionController {
	return &companionController{
		companionService: companionService,
		rateLimiter:      rateLimiter,
	}
}

func (c *companionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/companion/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(c.rateLimiter.Middleware)
	h.Post("sessions", c.StartSession)
	h.Get("sessions", c.ListSessions)
	h.Get("sessions/:id", c.GetTranscript)
	h.Post("sessions/:id/messages", c.PostMessage)
	h.Patch("sessions/:id/title", c.RenameSession)
}

func (c *companionController) StartSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.companionService.StartSession(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.HandleCompanionError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *companionController) PostMessage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Not found"))
	}

	var req dto.PostMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.companionService.PostMessage(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return serverutils.HandleCompanionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success post message", res))
}

func (c *companionController) RenameSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Not found"))
	}

	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.companionService.RenameSession(ctx.Context(), userId, sessionId, &req); err != nil {
		return serverutils.HandleCompanionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename session", nil))
}

func (c *companionController) ListSessions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.companionService.ListSessions(ctx.Context(), userId)
	if err != nil {
		return serverutils.HandleCompanionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *companionController) GetTranscript(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Not found"))
	}

	res, err := c.companionService.GetTranscript(ctx.Context(), userId, sessionId)
	if err != nil {
		return serverutils.HandleCompanionError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}
