package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploaderMock struct {
	uploadedFilename string
	uploadedContent  []byte
	returnURL        string
	returnErr        error
}

func (u *uploaderMock) Upload(_ context.Context, params UploadParams) (string, error) {
	if u.returnErr != nil {
		return "", u.returnErr
	}
	u.uploadedFilename = params.Filename
	content, err := io.ReadAll(params.File)
	if err != nil {
		return "", err
	}
	u.uploadedContent = content
	return u.returnURL, nil
}

func multipartImageRequest(t *testing.T, fieldName, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload-image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	uploader := &uploaderMock{
		returnURL: "https://estudio-media.s3.eu-central-1.amazonaws.com/images/abc-logo.png",
	}
	handler := NewHandler(uploader, metrics.NewTestManager())

	imageBytes := []byte("png-bytes-here")
	req := multipartImageRequest(t, uploadFileField, "logo.png", imageBytes)
	rr := httptest.NewRecorder()

	handler.HandleUpload(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), uploader.returnURL)
	assert.Equal(t, "logo.png", uploader.uploadedFilename)
	assert.Equal(t, imageBytes, uploader.uploadedContent)
}

func TestHandler_Upload_missingFile(t *testing.T) {
	uploader := &uploaderMock{returnURL: "unused"}
	handler := NewHandler(uploader, metrics.NewTestManager())

	// wrong multipart field name
	req := multipartImageRequest(t, "file", "logo.png", []byte("png-bytes"))
	rr := httptest.NewRecorder()

	handler.HandleUpload(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, uploader.uploadedFilename)
}

func TestHandler_Upload_uploaderError(t *testing.T) {
	uploader := &uploaderMock{returnErr: ErrUpload}
	handler := NewHandler(uploader, metrics.NewTestManager())

	req := multipartImageRequest(t, uploadFileField, "logo.png", []byte("png-bytes"))
	rr := httptest.NewRecorder()

	handler.HandleUpload(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// upstream failure detail is logged, not leaked to the caller
	assert.NotContains(t, rr.Body.String(), "s3")
}

func TestObjectKey(t *testing.T) {
	key1, err := objectKey("mi foto.png")
	require.NoError(t, err)
	assert.Contains(t, key1, "mi_foto.png")
	assert.Contains(t, key1, "images/")
	assert.NotContains(t, key1, " ")

	key2, err := objectKey("mi foto.png")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2, "repeated uploads get distinct keys")

	// path components are stripped
	key3, err := objectKey("../../etc/passwd")
	require.NoError(t, err)
	assert.NotContains(t, key3, "..")
}
