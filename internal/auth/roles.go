package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	apperrors "github.com/lifeshare/lifeshare-api/pkg/util/errorutil"
)

// Route identifies a registered route by method and path pattern.
type Route struct {
	Method string
	Path   string
}

// AccessPolicy maps routes to the stored role a caller must hold.
// domain.RoleNone means any authenticated caller is allowed.
type AccessPolicy map[Route]domain.Role

// UserLookup resolves stored users by email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// RoleGate authorizes authenticated callers against an AccessPolicy. It must
// run after AuthMiddleware.Handle.
type RoleGate struct {
	users    UserLookup
	policy   AccessPolicy
	fallback domain.Role
}

// NewRoleGate builds a gate. Routes absent from policy require fallback.
func NewRoleGate(users UserLookup, policy AccessPolicy, fallback domain.Role) *RoleGate {
	return &RoleGate{users: users, policy: policy, fallback: fallback}
}

// Required returns the role the given route demands.
func (g *RoleGate) Required(method, path string) domain.Role {
	if role, ok := g.policy[Route{Method: strings.ToUpper(method), Path: path}]; ok {
		return role
	}
	return g.fallback
}

// Handle enforces the policy entry for the matched route.
func (g *RoleGate) Handle(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	route := c.Route()
	required := g.Required(route.Method, route.Path)
	if required == domain.RoleNone {
		return c.Next()
	}

	user, err := g.users.GetByEmail(c.UserContext(), claims.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewForbidden("forbidden access")
		}
		return apperrors.MapError(err)
	}
	if !user.HasRole(required) {
		return apperrors.NewForbidden("forbidden access")
	}

	return c.Next()
}

// RequireSelf rejects callers whose token email differs from the named path parameter.
func RequireSelf(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !strings.EqualFold(claims.Email, c.Params(param)) {
			return apperrors.NewForbidden("forbidden access")
		}
		return c.Next()
	}
}
