package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoMock_upsertMerge(t *testing.T) {
	repo := NewMockContentRepo()
	ctx := context.Background()

	// empty before first write
	siteContent, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, siteContent)

	require.NoError(t, repo.Update(ctx, SiteContent{
		"titulo":    "Estudio",
		"subtitulo": "Bienvenidos",
	}))
	require.NoError(t, repo.Update(ctx, SiteContent{
		"subtitulo": "Hola",
		"telefono":  "+34 600 000 000",
	}))

	siteContent, err = repo.Get(ctx)
	require.NoError(t, err)
	// merged: updated fields replaced, untouched fields kept
	assert.Equal(t, SiteContent{
		"titulo":    "Estudio",
		"subtitulo": "Hola",
		"telefono":  "+34 600 000 000",
	}, siteContent)
}

func TestHandler_Get_emptyDocument(t *testing.T) {
	handler := NewHandler(NewMockContentRepo(), metrics.NewTestManager())

	req := httptest.NewRequest("GET", "/api/get-content", nil)
	rr := httptest.NewRecorder()

	handler.HandleGet(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{}`, rr.Body.String())
}

func TestHandler_UpdateThenGet(t *testing.T) {
	repo := NewMockContentRepo()
	handler := NewHandler(repo, metrics.NewTestManager())

	req := httptest.NewRequest("POST", "/api/update-section", strings.NewReader(`{"titulo":"Estudio","horario":"9-18"}`))
	rr := httptest.NewRecorder()
	handler.HandleUpdate(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "updated", rr.Body.String())

	req = httptest.NewRequest("GET", "/api/get-content", nil)
	rr = httptest.NewRecorder()
	handler.HandleGet(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got SiteContent
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Estudio", got["titulo"])
	assert.Equal(t, "9-18", got["horario"])
}

func TestHandler_Update_badRequest(t *testing.T) {
	handler := NewHandler(NewMockContentRepo(), metrics.NewTestManager())

	testCases := []struct {
		name string
		body string
	}{
		{name: "MalformedJson", body: `{"titulo":`},
		{name: "EmptyObject", body: `{}`},
		{name: "NotAnObject", body: `[1,2,3]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/update-section", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			handler.HandleUpdate(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
