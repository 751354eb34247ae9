package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/middlewares"
	"github.com/hdang/siteadmin/internal/site"
)

type SiteHandler struct {
	settings *site.SettingService
	contact  *site.ContactService
	content  *site.ContentService
	auditor  *audit.Recorder
}

type putSettingRequest struct {
	Value string `json:"value"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *SiteHandler) GetSettings(ctx *fiber.Ctx) error {
	settings, err := h.settings.List(ctx.Context())
	if err != nil {
		return err
	}
	resp := make(map[string]string, len(settings))
	for _, s := range settings {
		resp[s.Key] = s.Value
	}
	return ctx.JSON(NewDataResponse(resp))
}

func (h *SiteHandler) PutSetting(ctx *fiber.Ctx) error {
	key := ctx.Params("key")
	var req putSettingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	var oldValue any
	if existing, err := h.settings.Get(ctx.Context(), key); err == nil {
		oldValue = existing.Value
	}

	setting, err := h.settings.Put(ctx.Context(), key, req.Value)
	if err != nil {
		return err
	}

	h.auditor.RecordResourceChange(ctx.Context(), middlewares.RequestInfo(ctx),
		audit.ActionSettingUpdated, "setting", key, oldValue, setting.Value)
	return ctx.JSON(NewDataResponse(fiber.Map{"key": setting.Key, "value": setting.Value}))
}

// PostContact accepts a public contact-form submission. The route carries
// its own hourly rate limit.
func (h *SiteHandler) PostContact(ctx *fiber.Ctx) error {
	var req contactRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if req.Name == "" || req.Email == "" || req.Body == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, email and body are required")
	}

	message, err := h.contact.Submit(ctx.Context(), site.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
		IP:      ctx.IP(),
	})
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(fiber.Map{"messageId": message.ID}))
}

// GetContent serves a published content document from the upstream CMS.
func (h *SiteHandler) GetContent(ctx *fiber.Ctx) error {
	body, err := h.content.Get(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Send(body)
}

func NewSiteHandler(settings *site.SettingService, contact *site.ContactService, content *site.ContentService, auditor *audit.Recorder) *SiteHandler {
	return &SiteHandler{
		settings: settings,
		contact:  contact,
		content:  content,
		auditor:  auditor,
	}
}
