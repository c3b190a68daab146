package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/shared/response"
	"realestate-backend/pkg/csvutil"
)

var (
	ErrFileTooLarge = errors.New("uploaded file is too large")
	ErrTooManyRows  = errors.New("too many rows in import file")
	ErrNoValidRows  = errors.New("import file contains no valid rows")
	ErrNoFile       = errors.New("no file uploaded")
)

// ReadUpload returns the uploaded CSV, taken from the multipart field "file"
// or, for any other content type, from the raw request body.
func ReadUpload(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+4096)

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, ErrFileTooLarge
			}
			return nil, ErrNoFile
		}
		if fh.Size > maxBytes {
			return nil, ErrFileTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoFile
	}
	return data, nil
}

// HandleImportError writes the reply for upload and parse failures of an
// import. It reports false for errors it does not know.
func HandleImportError(c *gin.Context, err error, result *ImportResult) bool {
	var missing *csvutil.MissingColumnsError
	switch {
	case errors.Is(err, ErrFileTooLarge):
		response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file is too large", nil)
	case errors.Is(err, ErrTooManyRows):
		response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "TOO_MANY_ROWS", err.Error(), nil)
	case errors.Is(err, ErrNoFile), errors.Is(err, csvutil.ErrEmptyFile):
		response.ErrorWithCode(c, http.StatusBadRequest, "EMPTY_FILE", "No CSV content was uploaded", nil)
	case errors.As(err, &missing):
		response.ErrorWithCode(c, http.StatusBadRequest, "MISSING_COLUMNS", missing.Error(), gin.H{"columns": missing.Columns})
	case errors.Is(err, ErrNoValidRows):
		response.ErrorWithCode(c, http.StatusUnprocessableEntity, "NO_VALID_ROWS", "No valid rows to import", result)
	default:
		return false
	}
	return true
}

// Respond streams an export as an attachment.
func Respond(c *gin.Context, format Format, base, sheet string, header []string, rows [][]string) {
	filename := format.Filename(base, time.Now())

	var buf bytes.Buffer
	if err := Write(&buf, format, sheet, header, rows); err != nil {
		log.Error().Err(err).Str("export", base).Msg("failed to render export")
		response.InternalServerError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
