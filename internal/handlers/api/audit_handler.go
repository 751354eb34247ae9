package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
)

type AuditHandler struct {
	auditor  *audit.Recorder
	security *audit.SecurityRecorder
}

func parseQueryFilter(ctx *fiber.Ctx) audit.QueryFilter {
	filter := audit.QueryFilter{
		Action:       ctx.Query("action"),
		ResourceType: ctx.Query("resourceType"),
		Severity:     ctx.Query("severity"),
		Limit:        ctx.QueryInt("limit", 100),
	}
	if userID, err := strconv.ParseUint(ctx.Query("userId"), 10, 64); err == nil {
		filter.UserID = uint(userID)
	}
	if start, err := time.Parse(time.RFC3339, ctx.Query("startDate")); err == nil {
		filter.StartDate = start
	}
	if end, err := time.Parse(time.RFC3339, ctx.Query("endDate")); err == nil {
		filter.EndDate = end
	}
	return filter
}

func (h *AuditHandler) GetAuditLogs(ctx *fiber.Ctx) error {
	entries, err := h.auditor.Query(ctx.Context(), parseQueryFilter(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(entries))
}

func (h *AuditHandler) GetSecurityEvents(ctx *fiber.Ctx) error {
	events, err := h.security.Query(ctx.Context(), parseQueryFilter(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(events))
}

// PostCleanup prunes audit and security rows past the retention window.
func (h *AuditHandler) PostCleanup(ctx *fiber.Ctx) error {
	retentionDays := ctx.QueryInt("retentionDays", 0)
	auditRemoved, err := h.auditor.Cleanup(ctx.Context(), retentionDays)
	if err != nil {
		return err
	}
	securityRemoved, err := h.security.Cleanup(ctx.Context(), retentionDays)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(fiber.Map{
		"auditLogsRemoved":      auditRemoved,
		"securityEventsRemoved": securityRemoved,
	}))
}

func NewAuditHandler(auditor *audit.Recorder, security *audit.SecurityRecorder) *AuditHandler {
	return &AuditHandler{
		auditor:  auditor,
		security: security,
	}
}
