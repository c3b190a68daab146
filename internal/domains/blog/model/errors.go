package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-backend/internal/shared/response"
)

var (
	ErrPostNotFound   = errors.New("blog post not found")
	ErrPostNotDeleted = errors.New("blog post is not deleted")
	ErrInvalidPostID  = errors.New("invalid blog post id")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrInvalidImage   = errors.New("invalid cover image")
	ErrNoCoverFile    = errors.New("no cover image uploaded")
)

var blogErrorMap = map[error]response.ErrorEntry{
	ErrPostNotFound:   {Status: http.StatusNotFound, Code: "POST_NOT_FOUND", Message: "Blog post not found"},
	ErrPostNotDeleted: {Status: http.StatusConflict, Code: "POST_NOT_DELETED", Message: "Only deleted posts can be restored"},
	ErrInvalidPostID:  {Status: http.StatusBadRequest, Code: "INVALID_ID", Message: "Invalid blog post id"},
	ErrSlugTaken:      {Status: http.StatusConflict, Code: "SLUG_TAKEN", Message: "Could not find a free slug for this title"},
	ErrInvalidImage:   {Status: http.StatusBadRequest, Code: "INVALID_IMAGE", Message: "Cover must be a JPEG or PNG image up to 5MB"},
	ErrNoCoverFile:    {Status: http.StatusBadRequest, Code: "NO_FILE", Message: "Upload the cover as multipart field \"file\""},
}

// HandleBlogError writes the mapped response for err; unknown errors become 500.
func HandleBlogError(c *gin.Context, err error) {
	if response.HandleMapped(c, err, blogErrorMap) {
		return
	}
	response.InternalServerError(c)
}
