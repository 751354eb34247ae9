package middlewares

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/auth"
	"github.com/hdang/siteadmin/internal/rbac"
	"github.com/hdang/siteadmin/internal/sessions"
	"github.com/hdang/siteadmin/internal/site"
	"github.com/hdang/siteadmin/internal/users"
)

func errorStatus(err error) int {
	var policyErr *auth.PolicyError
	switch {
	case errors.Is(err, sessions.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrWrongPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountLocked):
		return fiber.StatusLocked
	case errors.Is(err, rbac.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.As(err, &policyErr),
		errors.Is(err, auth.ErrAccountDisabled),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, users.ErrEmailRegistered),
		errors.Is(err, rbac.ErrUnknownPermission),
		errors.Is(err, rbac.ErrSystemRoleImmutable),
		errors.Is(err, rbac.ErrRoleNameTaken),
		errors.Is(err, rbac.ErrRoleInUse),
		errors.Is(err, site.ErrInvalidEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, sessions.ErrSessionNotFound),
		errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, rbac.ErrRoleNotFound),
		errors.Is(err, site.ErrSettingNotFound),
		errors.Is(err, site.ErrContentNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler maps the error taxonomy to HTTP statuses. Internal failures
// are logged and returned as a bare 500 without leaking detail.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := errorStatus(err)
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "path", ctx.Path(), "error", err)
		message = "Internal server error"
	}

	return ctx.Status(code).JSON(fiber.Map{
		"apiVersion": "1.0",
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
