package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/rbac"
)

type RoleHandler struct {
	roleService *rbac.RoleService
	auditor     *audit.Recorder
}

type createRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func parseRoleID(ctx *fiber.Ctx) (uint, error) {
	roleID, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.ErrNotFound
	}
	return uint(roleID), nil
}

func (h *RoleHandler) GetRoles(ctx *fiber.Ctx) error {
	roles, err := h.roleService.ListRoles(ctx.Context())
	if err != nil {
		return err
	}
	resp := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, NewRoleResponse(role))
	}
	return ctx.JSON(NewDataResponse(resp))
}

func (h *RoleHandler) GetRole(ctx *fiber.Ctx) error {
	roleID, err := parseRoleID(ctx)
	if err != nil {
		return err
	}
	role, err := h.roleService.GetRole(ctx.Context(), roleID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(NewRoleResponse(role)))
}

func (h *RoleHandler) GetPermissions(ctx *fiber.Ctx) error {
	permissions, err := h.roleService.ListPermissions(ctx.Context())
	if err != nil {
		return err
	}
	type permissionResponse struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	resp := make([]permissionResponse, 0, len(permissions))
	for _, p := range permissions {
		resp = append(resp, permissionResponse{Name: p.Name, Description: p.Description})
	}
	return ctx.JSON(NewDataResponse(resp))
}

func (h *RoleHandler) PostRole(ctx *fiber.Ctx) error {
	var req createRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "role name is required")
	}

	role, err := h.roleService.CreateRole(ctx.Context(), rbac.CreateRoleOptions{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionRoleCreated, "role", role.Name, nil, NewRoleResponse(role))
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(NewRoleResponse(role)))
}

func (h *RoleHandler) PutRole(ctx *fiber.Ctx) error {
	roleID, err := parseRoleID(ctx)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	before, err := h.roleService.GetRole(ctx.Context(), roleID)
	if err != nil {
		return err
	}
	oldValues := NewRoleResponse(before)

	role, err := h.roleService.UpdateRole(ctx.Context(), roleID, rbac.UpdateRoleOptions{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionRoleUpdated, "role", role.Name, oldValues, NewRoleResponse(role))
	return ctx.JSON(NewDataResponse(NewRoleResponse(role)))
}

func (h *RoleHandler) DeleteRole(ctx *fiber.Ctx) error {
	roleID, err := parseRoleID(ctx)
	if err != nil {
		return err
	}
	role, err := h.roleService.GetRole(ctx.Context(), roleID)
	if err != nil {
		return err
	}
	if err := h.roleService.DeleteRole(ctx.Context(), roleID); err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionRoleDeleted, "role", role.Name, NewRoleResponse(role), nil)
	return ctx.JSON(NewDataResponse(fiber.Map{"deleted": true}))
}

func NewRoleHandler(roleService *rbac.RoleService, auditor *audit.Recorder) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		auditor:     auditor,
	}
}
