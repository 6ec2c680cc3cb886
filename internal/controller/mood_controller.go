package controller

import (
	"mindmate-be/internal/dto"
	"mindmate-be/internal/pkg/serverutils"
	"mindmate-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMoodController interface {
	RegisterRoutes(r fiber.Router)
	LogMood(ctx *fiber.Ctx) error
	UpdateMood(ctx *fiber.Ctx) error
	DeleteMood(ctx *fiber.Ctx) error
	ListMoods(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
}

type moodController struct {
	moodService service.IMoodService
}

func NewMoodController(moodService service.IMoodService) IMoodController {
	return &moodController{
		moodService: moodService,
	}
}

func (c *moodController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/mood/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("summary", c.Summary)
	h.Post("", c.LogMood)
	h.Get("", c.ListMoods)
	h.Put(":id", c.UpdateMood)
	h.Delete(":id", c.DeleteMood)
}

func (c *moodController) LogMood(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.LogMoodRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moodService.LogMood(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success log mood", res))
}

func (c *moodController) UpdateMood(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateMoodRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moodService.UpdateMood(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update mood", res))
}

func (c *moodController) DeleteMood(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.moodService.DeleteMood(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete mood", nil))
}

func (c *moodController) ListMoods(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	from := ctx.Query("from", "")
	to := ctx.Query("to", "")

	res, err := c.moodService.ListMoods(ctx.Context(), userId, from, to)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list moods", res))
}

func (c *moodController) Summary(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	days := ctx.QueryInt("days", 7)

	res, err := c.moodService.Summary(ctx.Context(), userId, days)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mood summary", res))
}
