package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realestate-backend/internal/domains/blog/model"
	"realestate-backend/internal/domains/blog/service"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/response"
	"realestate-backend/internal/shared/utils"
)

// maxCoverBytes leaves room for multipart framing around a 5MB image.
const maxCoverBytes = 5*1024*1024 + 64*1024

type BlogHandler struct {
	service service.Service
	locale  string
}

func NewBlogHandler(svc service.Service, locale string) *BlogHandler {
	return &BlogHandler{service: svc, locale: locale}
}

func (h *BlogHandler) localeOf(c *gin.Context) string {
	return utils.ResolveLocale(c.Query("locale"), h.locale)
}

// ========================================
// ADMIN
// ========================================

// List - GET /api/v1/admin/blog/posts
func (h *BlogHandler) List(c *gin.Context) {
	var req model.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	posts, total, p, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Posts retrieved",
		model.ToViews(posts, h.localeOf(c)), response.NewMeta(p.Page, p.Limit, total))
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post retrieved", post.ToView(h.localeOf(c)))
}

func (h *BlogHandler) Create(c *gin.Context) {
	authorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Post created", post.ToView(h.localeOf(c)))
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post updated", post.ToView(h.localeOf(c)))
}

func (h *BlogHandler) Publish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post published", post.ToView(h.localeOf(c)))
}

func (h *BlogHandler) Unpublish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.service.Unpublish(c.Request.Context(), id)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post unpublished", post.ToView(h.localeOf(c)))
}

func (h *BlogHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post deleted", gin.H{"id": id.String()})
}

func (h *BlogHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post restored", post.ToView(h.localeOf(c)))
}

// UploadCover - POST /api/v1/admin/blog/posts/:id/cover (multipart "file")
func (h *BlogHandler) UploadCover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCoverBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			model.HandleBlogError(c, model.ErrInvalidImage)
			return
		}
		model.HandleBlogError(c, model.ErrNoCoverFile)
		return
	}

	f, err := fh.Open()
	if err != nil {
		model.HandleBlogError(c, model.ErrNoCoverFile)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		model.HandleBlogError(c, model.ErrNoCoverFile)
		return
	}

	post, err := h.service.UploadCover(c.Request.Context(), id, data)
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cover uploaded", post.ToView(h.localeOf(c)))
}

// ========================================
// PUBLIC
// ========================================

// ListPublished - GET /api/v1/public/blog
func (h *BlogHandler) ListPublished(c *gin.Context) {
	var req model.ListPublishedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	page, p, err := h.service.ListPublished(c.Request.Context(), req, h.localeOf(c))
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Posts retrieved", page.Posts, response.NewMeta(p.Page, p.Limit, page.Total))
}

// GetBySlug - GET /api/v1/public/blog/:slug
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"), h.localeOf(c))
	if err != nil {
		model.HandleBlogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Post retrieved", post)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleBlogError(c, errors.Join(model.ErrInvalidPostID, err))
		return uuid.Nil, false
	}
	return id, true
}
