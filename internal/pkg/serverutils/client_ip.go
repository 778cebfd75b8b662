package serverutils

import "github.com/gofiber/fiber/v2"

// ApplyProxyConfig makes ctx.IP read X-Forwarded-For, but only on requests
// arriving from one of trustedProxies. With no trusted proxies the header is
// ignored and the socket address is used.
func ApplyProxyConfig(cfg *fiber.Config, trustedProxies []string) {
	cfg.ProxyHeader = fiber.HeaderXForwardedFor
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = trustedProxies
	cfg.EnableIPValidation = true
}

// ClientIP is the address guest limits are keyed on.
func ClientIP(ctx *fiber.Ctx) string {
	if ip := ctx.IP(); ip != "" {
		return ip
	}
	return "0.0.0.0"
}
