package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
)

const (
	// PrincipalIDHeader and PrincipalRoleHeader carry the authenticated
	// identity resolved by the upstream gateway after JWT verification.
	PrincipalIDHeader   = "X-User-ID"
	PrincipalRoleHeader = "X-User-Role"
	// PrincipalLocalKey is the key the resolved principal is stored under
	// in Fiber's context locals.
	PrincipalLocalKey = "principal"
)

// Principal resolves the request's principal from the gateway headers and
// stores it in context locals. The values are trusted verbatim; token
// issuance and verification happen upstream. Requests without a resolvable
// principal are rejected with 401.
func Principal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Get(PrincipalIDHeader)
		if idStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing principal")
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid principal")
		}

		role := c.Get(PrincipalRoleHeader)
		if role != model.RoleAdmin {
			role = model.RoleUser
		}

		c.Locals(PrincipalLocalKey, model.Principal{ID: id, Role: role})
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal stored by the Principal middleware.
func PrincipalFromCtx(c *fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(model.Principal)
	return p, ok
}
