package controller

import (
	"bufio"
	"context"
	"fmt"

	"virtualboard-be/internal/constant"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/pkg/serverutils"
	"virtualboard-be/internal/service"
	"virtualboard-be/pkg/board"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMeetingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListAgents(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	ListDecisions(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

type meetingController struct {
	meetingService service.IMeetingService
	rateLimiter    *serverutils.RateLimiter
	logger         logger.ILogger
}

func NewMeetingController(meetingService service.IMeetingService, rateLimiter *serverutils.RateLimiter, log logger.ILogger) IMeetingController {
	return &meetingController{
		meetingService: meetingService,
		rateLimiter:    rateLimiter,
		logger:         log,
	}
}

func (c *meetingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/meeting/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("agents", c.ListAgents)
	h.Post("project/:projectId", c.Create)
	h.Get("project/:projectId", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/messages", c.ListMessages)
	h.Get(":id/decisions", c.ListDecisions)
	h.Post(":id/chat",
		serverutils.RateLimitMiddleware(c.rateLimiter, "chat", constant.ChatRateLimitPerMinute),
		c.Chat)
	h.Post(":id/end", c.End)
}

func (c *meetingController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateMeetingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	projectId, _ := uuid.Parse(ctx.Params("projectId"))
	req.ProjectId = projectId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.meetingService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create meeting", res))
}

func (c *meetingController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	res, err := c.meetingService.List(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list meetings", res))
}

func (c *meetingController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.meetingService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show meeting", res))
}

// ListAgents returns the static board roster for the meeting setup screen.
func (c *meetingController) ListAgents(ctx *fiber.Ctx) error {
	res := make([]*dto.ShowAgentResponse, len(board.Agents))
	for i, agent := range board.Agents {
		res[i] = &dto.ShowAgentResponse{
			Id:     agent.Id,
			Role:   string(agent.Role),
			Name:   agent.Name,
			NameAr: agent.NameAr,
			Icon:   agent.Icon,
			Color:  agent.Color,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list agents", res))
}

func (c *meetingController) ListMessages(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.meetingService.ListMessages(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *meetingController) ListDecisions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.meetingService.ListDecisions(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list decisions", res))
}

// Chat streams the board discussion as plain text chunks. Side effects
// (persistence, decision synthesis) run inside the service only after the
// stream finishes cleanly.
func (c *meetingController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	meetingId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.MeetingId = meetingId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")

	// The stream writer runs after this handler returns, so it must not touch
	// the fiber context.
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		_, err := c.meetingService.Chat(context.Background(), userId, &req, func(delta string) error {
			if _, werr := w.WriteString(delta); werr != nil {
				return werr
			}
			return w.Flush()
		})
		if err != nil {
			c.logger.Error("MeetingController", "Chat stream failed", map[string]interface{}{
				"meeting_id": req.MeetingId,
				"error":      err.Error(),
			})
			// The status line is already sent; the error goes in-band.
			fmt.Fprintf(w, "\n[stream error] %s", err.Error())
			w.Flush()
		}
	})

	return nil
}

func (c *meetingController) End(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.meetingService.End(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end meeting", res))
}
