package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const emailKey = "identity_email"

// Identity verifies an HS256 bearer token and stores its email claim for the
// handlers. Requests without a bearer token (no header, or another scheme such
// as Basic) pass through unless required is set. A bearer token that fails
// verification is always rejected.
// An empty secret disables verification and every token is rejected.
func Identity(secret string, required bool) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if required {
				return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
			}
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if parts[0] != "Bearer" {
			if required {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header")
			}
			return c.Next()
		}
		if len(parts) != 2 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid Authorization header")
		}
		if len(key) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		email, _ := claims["email"].(string)
		if email == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token has no email claim")
		}
		c.Locals(emailKey, email)
		return c.Next()
	}
}

// Email returns the verified email of the caller, if any.
func Email(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(emailKey).(string)
	return email, ok && email != ""
}
