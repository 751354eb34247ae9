package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/users"
)

type UserHandler struct {
	userService *users.UserService
	auditor     *audit.Recorder
}

func parseUserID(ctx *fiber.Ctx) (uint, error) {
	userID, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.ErrNotFound
	}
	return uint(userID), nil
}

// PostUnlock clears the lockout state of an account. Unlocking is an
// administrative action only; there is no self-service path.
func (h *UserHandler) PostUnlock(ctx *fiber.Ctx) error {
	userID, err := parseUserID(ctx)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(ctx.Context(), userID)
	if err != nil {
		return err
	}
	if err := h.userService.Unlock(ctx.Context(), user.ID); err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionUserUnlocked, "user", user.Username, nil, nil)
	return ctx.JSON(NewDataResponse(fiber.Map{"unlocked": true}))
}

// PostSetActive deactivates or reactivates an account. Accounts are never
// hard-deleted.
func (h *UserHandler) PostSetActive(ctx *fiber.Ctx) error {
	userID, err := parseUserID(ctx)
	if err != nil {
		return err
	}
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	user, err := h.userService.GetUserByID(ctx.Context(), userID)
	if err != nil {
		return err
	}
	if err := h.userService.SetActive(ctx.Context(), user.ID, req.IsActive); err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		"user_active_changed", "user", user.Username,
		fiber.Map{"isActive": user.IsActive}, fiber.Map{"isActive": req.IsActive})
	return ctx.JSON(NewDataResponse(fiber.Map{"isActive": req.IsActive}))
}

func NewUserHandler(userService *users.UserService, auditor *audit.Recorder) *UserHandler {
	return &UserHandler{
		userService: userService,
		auditor:     auditor,
	}
}
