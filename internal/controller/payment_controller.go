package controller

import (
	"encoding/json"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/serverutils"
	"chatshare-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/webhook", c.Webhook)

	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("/status", serverutils.JwtMiddleware, c.GetStatus)
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	// fasthttp reuses the body buffer after the handler returns.
	raw := append([]byte(nil), ctx.Body()...)

	var req dto.MidtransNotification
	if err := json.Unmarshal(raw, &req); err != nil {
		return apperror.Wrap(apperror.KindValidation, "Invalid notification body.", err)
	}

	if err := c.service.HandleNotification(ctx.UserContext(), &req, raw); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}

func (c *paymentController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := serverutils.MustUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Status(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
