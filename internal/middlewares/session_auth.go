package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/sessions"
	"github.com/hdang/siteadmin/internal/users"
	"github.com/hdang/siteadmin/model"
)

const (
	userContextKey    = "auth_user"
	sessionContextKey = "auth_session"
	tokenContextKey   = "auth_token"
)

// TokenFromRequest reads the session token from the cookie or from an
// Authorization: Bearer header.
func TokenFromRequest(ctx *fiber.Ctx, cookieName string) string {
	if token := ctx.Cookies(cookieName); token != "" {
		return token
	}
	header := ctx.Get(fiber.HeaderAuthorization)
	if bearer, ok := strings.CutPrefix(header, "Bearer "); ok {
		return bearer
	}
	return ""
}

// SessionAuth validates the presented session token and loads the principal
// with its role. Requests without a valid session fail with the uniform
// unauthenticated outcome regardless of the internal reason.
func SessionAuth(sessionService *sessions.SessionService, userService *users.UserService, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := TokenFromRequest(ctx, cookieName)
		if token == "" {
			return sessions.ErrUnauthenticated
		}

		session, err := sessionService.Validate(ctx.Context(), token)
		if err != nil {
			return sessions.ErrUnauthenticated
		}

		user, err := userService.GetUserByID(ctx.Context(), session.UserID)
		if err != nil || !user.IsActive {
			return sessions.ErrUnauthenticated
		}

		ctx.Locals(userContextKey, user)
		ctx.Locals(sessionContextKey, session)
		ctx.Locals(tokenContextKey, token)
		return ctx.Next()
	}
}

func CurrentUser(ctx *fiber.Ctx) *model.User {
	user, _ := ctx.Locals(userContextKey).(*model.User)
	return user
}

func CurrentSession(ctx *fiber.Ctx) *model.Session {
	session, _ := ctx.Locals(sessionContextKey).(*model.Session)
	return session
}

func CurrentToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(tokenContextKey).(string)
	return token
}

// RequestInfo builds the audit attribution for the current request.
func RequestInfo(ctx *fiber.Ctx) audit.RequestInfo {
	info := audit.RequestInfo{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
	if user := CurrentUser(ctx); user != nil {
		info.UserID = user.ID
	}
	if session := CurrentSession(ctx); session != nil {
		info.SessionID = session.ID
	}
	return info
}
