package controller

import (
	"chatshare-be/internal/dto"
	"chatshare-be/internal/pkg/serverutils"
	"chatshare-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISpeechController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type speechController struct {
	service service.ISpeechService
}

func NewSpeechController(service service.ISpeechService) ISpeechController {
	return &speechController{service: service}
}

func (c *speechController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/audio/generate", serverutils.JwtMiddleware, c.Generate)
}

func (c *speechController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateAudioRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audio generated", res))
}
