package controller

import (
	"pulse-chat-be/internal/pkg/serverutils"
	"pulse-chat-be/internal/realtime"
	"pulse-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IRoomController serves the REST read paths scoped to a conversation:
// message history and recent engagement reports. The room id is always
// derived from the caller's identity plus the target user in the path,
// so clients never handle raw room keys.
type IRoomController interface {
	RegisterRoutes(r fiber.Router)
	GetMessages(ctx *fiber.Ctx) error
	GetEngagement(ctx *fiber.Ctx) error
}

type roomController struct {
	chat       service.IChatService
	engagement service.IEngagementService
}

func NewRoomController(chat service.IChatService, engagement service.IEngagementService) IRoomController {
	return &roomController{chat: chat, engagement: engagement}
}

func (c *roomController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rooms")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/:targetId/messages", c.GetMessages)
	h.Get("/:targetId/engagement", c.GetEngagement)
}

func (c *roomController) resolveRoom(ctx *fiber.Ctx) (string, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	if _, err := uuid.Parse(userIdStr); err != nil {
		return "", fiber.ErrUnauthorized
	}

	targetId, err := uuid.Parse(ctx.Params("targetId"))
	if err != nil {
		return "", fiber.ErrBadRequest
	}

	return realtime.RoomID(userIdStr, targetId.String()), nil
}

func (c *roomController) GetMessages(ctx *fiber.Ctx) error {
	roomId, err := c.resolveRoom(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", service.DefaultHistoryLimit)

	messages, err := c.chat.History(ctx.UserContext(), roomId, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": "Failed to load history",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    messages,
	})
}

func (c *roomController) GetEngagement(ctx *fiber.Ctx) error {
	roomId, err := c.resolveRoom(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", service.DefaultReportLimit)

	reports, err := c.engagement.Reports(ctx.UserContext(), roomId, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": "Failed to load engagement reports",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    reports,
	})
}
