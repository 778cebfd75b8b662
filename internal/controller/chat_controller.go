package controller

import (
	"chatshare-be/internal/dto"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/serverutils"
	"chatshare-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	PostMessage(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	UpdateTitle(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/", serverutils.OptionalJwtMiddleware, c.PostMessage)
	h.Post("/commit", serverutils.JwtMiddleware, c.Commit)
	h.Get("/list", serverutils.JwtMiddleware, c.List)
	h.Post("/start", serverutils.JwtMiddleware, c.Start)
	h.Get("/history/:id", serverutils.JwtMiddleware, c.Messages)

	h.Patch("/:id", serverutils.JwtMiddleware, c.UpdateTitle)
	h.Delete("/:id", serverutils.JwtMiddleware, c.Delete)
	h.Post("/:id/title", serverutils.JwtMiddleware, c.UpdateTitle)
	h.Patch("/:id/update", serverutils.JwtMiddleware, c.UpdateTitle)
	h.Delete("/:id/delete", serverutils.JwtMiddleware, c.Delete)
	h.Get("/:id/messages", serverutils.JwtMiddleware, c.Messages)
}

// chatIDParam reads :id. A malformed id can never address a chat.
func chatIDParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("We couldn't find that chat session.")
	}
	return id, nil
}

func (c *chatController) PostMessage(ctx *fiber.Ctx) error {
	var req dto.PostMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	var caller *uuid.UUID
	if userId, ok := serverutils.CurrentUserID(ctx); ok {
		caller = &userId
	}

	res, err := c.service.PostMessage(ctx.UserContext(), caller, &req, serverutils.ClientIP(ctx))
	if err != nil {
		return err
	}
	if res.LimitExceeded {
		return ctx.JSON(serverutils.SuccessResponse(service.MsgGuestLimitExceeded, res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.StartChat(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse(service.MsgNewChatStarted, res))
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListChats(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) Messages(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetMessages(ctx.UserContext(), userId, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *chatController) UpdateTitle(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateTitleRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateTitle(ctx.UserContext(), userId, chatId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat title updated successfully.", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteChat(ctx.UserContext(), userId, chatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat deleted successfully.", nil))
}

func (c *chatController) Commit(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CommitTitleRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if req.ChatId == nil {
		return apperror.Validation("Chat ID is required.")
	}

	res, err := c.service.CommitTitle(ctx.UserContext(), userId, *req.ChatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat title generated.", res))
}
