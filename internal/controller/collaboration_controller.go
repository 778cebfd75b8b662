package controller

import (
	"chatshare-be/internal/dto"
	"chatshare-be/internal/pkg/serverutils"
	"chatshare-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICollaborationController interface {
	RegisterRoutes(r fiber.Router)
	Invite(ctx *fiber.Ctx) error
	ShareByEmail(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Pending(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type collaborationController struct {
	service service.ICollaborationService
}

func NewCollaborationController(service service.ICollaborationService) ICollaborationController {
	return &collaborationController{service: service}
}

func (c *collaborationController) RegisterRoutes(r fiber.Router) {
	// Middleware is per route: a group Use would also catch the guest chat route.
	auth := serverutils.JwtMiddleware
	h := r.Group("/chat")
	h.Get("/collaborators/pending", auth, c.Pending)
	h.Get("/:id/collaborators", auth, c.List)
	h.Post("/:id/collaborators/add", auth, c.Invite)
	h.Post("/:id/collaborators/remove", auth, c.Remove)
	h.Post("/:id/collaborators/approve", auth, c.Approve)
	h.Post("/:id/collaborators/reject", auth, c.Reject)
	h.Post("/:id/share", auth, c.Invite)
	h.Post("/:id/share/email", auth, c.ShareByEmail)
}

func (c *collaborationController) Invite(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.InviteCollaboratorsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Invite(ctx.UserContext(), userId, chatId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *collaborationController) ShareByEmail(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ShareByEmailRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ShareByEmail(ctx.UserContext(), userId, chatId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *collaborationController) Approve(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Approve(ctx.UserContext(), userId, chatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Collaboration approved.", nil))
}

func (c *collaborationController) Reject(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Reject(ctx.UserContext(), userId, chatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Collaboration rejected.", nil))
}

func (c *collaborationController) Remove(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RemoveCollaboratorRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	message, err := c.service.Remove(ctx.UserContext(), userId, chatId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any](message, nil))
}

func (c *collaborationController) Pending(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListPending(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *collaborationController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}
	chatId, err := chatIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListCollaborators(ctx.UserContext(), userId, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
