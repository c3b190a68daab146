package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realestate-backend/internal/domains/lead/model"
	"realestate-backend/internal/domains/lead/service"
	"realestate-backend/internal/shared/response"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
)

type LeadHandler struct {
	service        service.Service
	locale         string
	maxImportBytes int64
}

func NewLeadHandler(svc service.Service, locale string, maxImportBytes int64) *LeadHandler {
	return &LeadHandler{service: svc, locale: locale, maxImportBytes: maxImportBytes}
}

func (h *LeadHandler) localeOf(c *gin.Context) string {
	return utils.ResolveLocale(c.Query("locale"), h.locale)
}

// List - GET /api/v1/admin/leads
func (h *LeadHandler) List(c *gin.Context) {
	var req model.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	leads, total, p, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Leads retrieved",
		model.ToViews(leads, h.localeOf(c)), response.NewMeta(p.Page, p.Limit, total))
}

// Export - GET /api/v1/admin/leads/export?format=csv|xlsx
func (h *LeadHandler) Export(c *gin.Context) {
	format, err := tabular.ParseFormat(c.Query("format"))
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	var req model.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	leads, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}

	rows := make([][]string, 0, len(leads))
	for i := range leads {
		rows = append(rows, leads[i].ExportRow())
	}
	tabular.Respond(c, format, "leads", "Leads", model.ExportColumns, rows)
}

// Import - POST /api/v1/admin/leads/import
func (h *LeadHandler) Import(c *gin.Context) {
	data, err := tabular.ReadUpload(c, h.maxImportBytes)
	if err != nil {
		if !tabular.HandleImportError(c, err, nil) {
			response.BadRequest(c, "Could not read upload", nil)
		}
		return
	}

	result, err := h.service.Import(c.Request.Context(), bytes.NewReader(data))
	if err != nil {
		if tabular.HandleImportError(c, err, result) {
			return
		}
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leads imported", result)
}

func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead retrieved", lead.ToView(h.localeOf(c)))
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req model.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	lead, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Lead created", lead.ToView(h.localeOf(c)))
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	lead, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead updated", lead.ToView(h.localeOf(c)))
}

// Patch - PATCH /api/v1/admin/leads/:id (inline table edit)
func (h *LeadHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.PatchLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	lead, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead updated", lead.ToView(h.localeOf(c)))
}

func (h *LeadHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead deleted", gin.H{"id": id.String()})
}

func (h *LeadHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead restored", lead.ToView(h.localeOf(c)))
}

// Purge - DELETE /api/v1/admin/leads/:id/purge (admin only)
func (h *LeadHandler) Purge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Purge(c.Request.Context(), id); err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lead permanently deleted", gin.H{"id": id.String()})
}

// Convert - POST /api/v1/admin/leads/:id/convert
// 201 when a client was created, 200 when the lead was already converted.
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ConvertLeadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body", err.Error())
			return
		}
	}

	result, err := h.service.Convert(c.Request.Context(), id, req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}

	if result.AlreadyConverted {
		response.Success(c, http.StatusOK, "Lead was already converted", result)
		return
	}
	response.Success(c, http.StatusCreated, "Lead converted to client", result)
}

// SubmitInquiry - POST /api/v1/public/inquiries (rate limited)
func (h *LeadHandler) SubmitInquiry(c *gin.Context) {
	var req model.SubmitInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	lead, err := h.service.SubmitInquiry(c.Request.Context(), req)
	if err != nil {
		model.HandleLeadError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Thank you, we will be in touch shortly", gin.H{"id": lead.ID.String()})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleLeadError(c, errors.Join(model.ErrInvalidLeadID, err))
		return uuid.Nil, false
	}
	return id, true
}
