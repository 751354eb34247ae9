package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/rbac"
)

// RequirePermission guards a route behind one permission. Every denial
// leaves an audit entry and a security event.
func RequirePermission(resolver rbac.Resolver, permission string, auditor *audit.Recorder, security *audit.SecurityRecorder) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if !resolver.Can(user, permission) {
			req := RequestInfo(ctx)
			auditor.RecordPermissionDenied(ctx.Context(), req, permission)
			security.RecordPermissionDenied(ctx.Context(), req, permission)
			return rbac.ErrPermissionDenied
		}
		return ctx.Next()
	}
}

// RequireRole guards a route behind a role name, super-admin overriding.
func RequireRole(resolver rbac.Resolver, roleName string, auditor *audit.Recorder, security *audit.SecurityRecorder) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user := CurrentUser(ctx)
		if !resolver.HasRole(user, roleName) {
			req := RequestInfo(ctx)
			auditor.RecordPermissionDenied(ctx.Context(), req, "role:"+roleName)
			security.RecordPermissionDenied(ctx.Context(), req, "role:"+roleName)
			return rbac.ErrPermissionDenied
		}
		return ctx.Next()
	}
}
