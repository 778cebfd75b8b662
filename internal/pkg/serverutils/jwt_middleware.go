package serverutils

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDLocal = "user_id"

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

// GenerateToken signs an HS256 access token for the user.
func GenerateToken(userId uuid.UUID, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userId.String(),
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken validates the token and returns the user id it was issued for.
func ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(userIdStr)
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return authHeader[7:]
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr := bearerToken(ctx)
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	userId, err := ParseToken(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	ctx.Locals(userIDLocal, userId.String())
	return ctx.Next()
}

// OptionalJwtMiddleware authenticates when a valid bearer token is present and
// otherwise lets the request through as a guest.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if tokenStr := bearerToken(ctx); tokenStr != "" {
		if userId, err := ParseToken(tokenStr); err == nil {
			ctx.Locals(userIDLocal, userId.String())
		}
	}
	return ctx.Next()
}

// CurrentUserID returns the authenticated caller, if any.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	userIdStr, ok := ctx.Locals(userIDLocal).(string)
	if !ok || userIdStr == "" {
		return uuid.Nil, false
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userId, true
}

// MustUserID is for routes behind JwtMiddleware.
func MustUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := CurrentUserID(ctx)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}
