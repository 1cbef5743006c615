package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OperatorHeader carries the identity of the operator making a manual change
const OperatorHeader = "X-Operator-ID"

const operatorKey = "operator_id"

// RequireOperator rejects requests without an operator identity and stores
// it for the handler
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		operator := strings.TrimSpace(c.Get(OperatorHeader))
		if operator == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing operator identity",
			})
		}

		c.Locals(operatorKey, operator)
		return c.Next()
	}
}

// OperatorID returns the operator set by RequireOperator, or ""
func OperatorID(c *fiber.Ctx) string {
	operator, _ := c.Locals(operatorKey).(string)
	return operator
}
