package middleware

import (
	"github.com/gofiber/fiber/v2"

	"lawdocs/internal/model"
)

const (
	// UserIDHeader and UserRoleHeader carry the authenticated identity. They
	// are injected by the portal's auth gate (reverse proxy) after token
	// verification; this service never sees credentials.
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	// PrincipalLocalKey is the key used to store the principal in Fiber's context locals.
	PrincipalLocalKey = "principal"
)

// Principal is the already-authenticated caller a handler acts on behalf of.
type Principal struct {
	UserID string
	Role   model.Role
}

// Authenticate requires the identity headers set by the upstream auth gate and
// stores the resulting principal in context locals. Requests without both
// headers are rejected before any handler runs.
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(UserIDHeader)
		role := c.Get(UserRoleHeader)
		if userID == "" || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		c.Locals(PrincipalLocalKey, Principal{UserID: userID, Role: model.Role(role)})

		return c.Next()
	}
}

// RequireRole gates a route group on the principal's role.
func RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if p.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// PrincipalFromCtx extracts the principal stored by Authenticate.
func PrincipalFromCtx(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(Principal)
	return p, ok
}
