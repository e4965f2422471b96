package template

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-print-designer/internal/middleware"
	"b2b-print-designer/internal/proofstore"
)

func multipartFile(t *testing.T, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func setupArtRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := proofstore.NewStore(t.TempDir(), "/uploads")
	handler := NewHandler(nil, store)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.POST("/admin/templates/art", handler.UploadArt)
	return router
}

func TestUploadArtStoresCleanSVG(t *testing.T) {
	router := setupArtRouter(t)
	body, contentType := multipartFile(t, "bg.svg",
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="5" height="5"/></svg>`))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/templates/art", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "/uploads/art/bg.svg")
}

func TestUploadArtRejectsActiveSVG(t *testing.T) {
	router := setupArtRouter(t)
	body, contentType := multipartFile(t, "evil.svg",
		[]byte(`<svg><script>alert(1)</script></svg>`))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/templates/art", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadArtRequiresFile(t *testing.T) {
	router := setupArtRouter(t)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/templates/art", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
