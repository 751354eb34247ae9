package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/auth"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/rbac"
	"github.com/hdang/siteadmin/internal/users"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	Name     string
	Secure   bool
	HttpOnly bool
	MaxAge   time.Duration
}

type AuthHandler struct {
	authService *auth.AuthService
	userService *users.UserService
	roleService *rbac.RoleService
	auditor     *audit.Recorder
	cookie      CookieConfig
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) setSessionCookie(ctx *fiber.Ctx, token string, expiresAt time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Secure:   h.cookie.Secure,
		HTTPOnly: h.cookie.HttpOnly,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Expires:  expiresAt,
	})
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	result, err := h.authService.Login(ctx.Context(), auth.LoginInput{
		Identifier: req.Username,
		Password:   req.Password,
		IP:         ctx.IP(),
		UserAgent:  ctx.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(ctx, result.Token, result.ExpiresAt)
	return ctx.JSON(NewDataResponse(fiber.Map{
		"user":      NewUserResponse(result.User),
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
	}))
}

func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	if err := h.authService.Logout(ctx.Context(), middlewares.CurrentToken(ctx), middlewares.RequestInfo(ctx)); err != nil {
		return err
	}
	ctx.ClearCookie(h.cookie.Name)
	return ctx.JSON(NewDataResponse(fiber.Map{"loggedOut": true}))
}

// PostRegister creates an admin account. The route is guarded by the
// users:create permission; there is no self-service signup.
func (h *AuthHandler) PostRegister(ctx *fiber.Ctx) error {
	var req registerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validateUsername(req.Username); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validateEmail(req.Email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return err
	}

	roleName := req.Role
	if roleName == "" {
		roleName = rbac.RoleViewer
	}
	role, err := h.roleService.GetRoleByName(ctx.Context(), roleName)
	if err != nil {
		if errors.Is(err, rbac.ErrRoleNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role")
		}
		return err
	}

	user, err := h.userService.CreateUser(ctx.Context(), users.CreateUserOptions{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   role.ID,
	})
	if err != nil {
		return err
	}
	user.Role = role

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionUserCreated, "user", user.Username, nil, NewUserResponse(user))
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(NewUserResponse(user)))
}

func (h *AuthHandler) PostChangePassword(ctx *fiber.Ctx) error {
	var req changePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	user := middlewares.CurrentUser(ctx)
	session := middlewares.CurrentSession(ctx)
	err := h.authService.ChangePassword(ctx.Context(), user,
		req.CurrentPassword, req.NewPassword, session.ID, middlewares.RequestInfo(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(fiber.Map{"changed": true}))
}

func (h *AuthHandler) GetMe(ctx *fiber.Ctx) error {
	return ctx.JSON(NewDataResponse(NewUserResponse(middlewares.CurrentUser(ctx))))
}

func NewAuthHandler(authService *auth.AuthService, userService *users.UserService, roleService *rbac.RoleService, auditor *audit.Recorder, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		roleService: roleService,
		auditor:     auditor,
		cookie:      cookie,
	}
}
