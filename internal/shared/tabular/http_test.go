package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-backend/pkg/csvutil"
)

func uploadRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/import", func(c *gin.Context) {
		data, err := ReadUpload(c, maxBytes)
		if err != nil {
			if !HandleImportError(c, err, nil) {
				c.Status(http.StatusInternalServerError)
			}
			return
		}
		c.String(http.StatusOK, string(data))
	})
	return r
}

func TestReadUpload_RawBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("name,phone\nJane,0901\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	uploadRouter(1024).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "name,phone\nJane,0901\n", w.Body.String())
}

func TestReadUpload_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "leads.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("name,phone\nJohn,0902\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	uploadRouter(1024).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John,0902")
}

func TestReadUpload_TooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	uploadRouter(100).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
}

func TestReadUpload_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("  \n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	uploadRouter(100).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_FILE")
}

func TestHandleImportError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	result := &ImportResult{Total: 1}
	result.Skip(2, "phone", "phone is required")

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&csvutil.MissingColumnsError{Columns: []string{"phone"}}, http.StatusBadRequest, "MISSING_COLUMNS"},
		{fmt.Errorf("%w: limit 10", ErrTooManyRows), http.StatusRequestEntityTooLarge, "TOO_MANY_ROWS"},
		{ErrNoValidRows, http.StatusUnprocessableEntity, "NO_VALID_ROWS"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		require.True(t, HandleImportError(c, tc.err, result))
		assert.Equal(t, tc.status, w.Code)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Error.Code)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	assert.False(t, HandleImportError(c, assert.AnError, nil))
}

func TestRespond_SetsAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, FormatCSV, "leads", "Leads", []string{"name", "notes"}, [][]string{{"Jane", "likes, views"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="leads-`)
	assert.Equal(t, "name,notes\r\nJane,\"likes, views\"\r\n", w.Body.String())
}
