package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/domains/client/service"
	"realestate-backend/internal/shared/response"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
)

type ClientHandler struct {
	service        service.Service
	locale         string
	maxImportBytes int64
}

func NewClientHandler(svc service.Service, locale string, maxImportBytes int64) *ClientHandler {
	return &ClientHandler{service: svc, locale: locale, maxImportBytes: maxImportBytes}
}

func (h *ClientHandler) localeOf(c *gin.Context) string {
	return utils.ResolveLocale(c.Query("locale"), h.locale)
}

// List - GET /api/v1/admin/clients
func (h *ClientHandler) List(c *gin.Context) {
	var req model.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	clients, total, p, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Clients retrieved",
		model.ToViews(clients, h.localeOf(c), time.Now()), response.NewMeta(p.Page, p.Limit, total))
}

// Export - GET /api/v1/admin/clients/export?format=csv|xlsx
func (h *ClientHandler) Export(c *gin.Context) {
	format, err := tabular.ParseFormat(c.Query("format"))
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	var req model.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	clients, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		model.HandleClientError(c, err)
		return
	}

	rows := make([][]string, 0, len(clients))
	for i := range clients {
		rows = append(rows, clients[i].ExportRow())
	}
	tabular.Respond(c, format, "clients", "Clients", model.ExportColumns, rows)
}

// Import - POST /api/v1/admin/clients/import (multipart "file" or text/csv body)
func (h *ClientHandler) Import(c *gin.Context) {
	data, err := tabular.ReadUpload(c, h.maxImportBytes)
	if err != nil {
		if !tabular.HandleImportError(c, err, nil) {
			response.BadRequest(c, "Could not read upload", nil)
		}
		return
	}

	result, err := h.service.Import(c.Request.Context(), bytes.NewReader(data), h.localeOf(c))
	if err != nil {
		if tabular.HandleImportError(c, err, result) {
			return
		}
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Clients imported", result)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client retrieved", client.ToView(h.localeOf(c), time.Now()))
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req model.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	client, err := h.service.Create(c.Request.Context(), req, h.localeOf(c))
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Client created", client.ToView(h.localeOf(c), time.Now()))
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	client, err := h.service.Update(c.Request.Context(), id, req, h.localeOf(c))
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client updated", client.ToView(h.localeOf(c), time.Now()))
}

// Patch - PATCH /api/v1/admin/clients/:id (inline table edit)
func (h *ClientHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.PatchClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	client, err := h.service.Patch(c.Request.Context(), id, req, h.localeOf(c))
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client updated", client.ToView(h.localeOf(c), time.Now()))
}

func (h *ClientHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client deleted", gin.H{"id": id.String()})
}

func (h *ClientHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	client, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client restored", client.ToView(h.localeOf(c), time.Now()))
}

// Purge - DELETE /api/v1/admin/clients/:id/purge (admin only)
func (h *ClientHandler) Purge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Purge(c.Request.Context(), id); err != nil {
		model.HandleClientError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Client permanently deleted", gin.H{"id": id.String()})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleClientError(c, errors.Join(model.ErrInvalidClientID, err))
		return uuid.Nil, false
	}
	return id, true
}
