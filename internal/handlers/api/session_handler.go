package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/sessions"
)

type SessionHandler struct {
	sessionService *sessions.SessionService
	auditor        *audit.Recorder
}

// GetSessions lists the caller's active, unexpired sessions.
func (h *SessionHandler) GetSessions(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	current := middlewares.CurrentSession(ctx)

	list, err := h.sessionService.List(ctx.Context(), user.ID)
	if err != nil {
		return err
	}

	resp := make([]SessionResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, SessionResponse{
			SessionID:    s.ID,
			IPAddress:    s.IPAddress,
			UserAgent:    s.UserAgent,
			LastActivity: s.LastActivity,
			ExpiresAt:    s.ExpiresAt,
			Current:      current != nil && s.ID == current.ID,
		})
	}
	return ctx.JSON(NewDataResponse(resp))
}

// DeleteSession revokes one of the caller's sessions by ID.
func (h *SessionHandler) DeleteSession(ctx *fiber.Ctx) error {
	sessionID, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}

	user := middlewares.CurrentUser(ctx)
	if err := h.sessionService.RevokeByID(ctx.Context(), user.ID, uint(sessionID)); err != nil {
		return err
	}

	h.auditor.Record(ctx.Context(), middlewares.RequestInfo(ctx), audit.Entry{
		Action:       audit.ActionSessionRevoked,
		ResourceType: "session",
		ResourceID:   ctx.Params("id"),
	})
	return ctx.JSON(NewDataResponse(fiber.Map{"revoked": true}))
}

func NewSessionHandler(sessionService *sessions.SessionService, auditor *audit.Recorder) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		auditor:        auditor,
	}
}
