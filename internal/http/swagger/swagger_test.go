package swagger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/storefront-catalog/api-contract"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http/swagger"
)

func TestRegister(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	require.NoError(t, swagger.Register(r, doc, apicontract.Raw()))

	testCases := []struct {
		path        string
		contentType string
	}{
		{path: "/docs", contentType: "text/html"},
		{path: "/docs/openapi.yml", contentType: "application/yaml"},
		{path: "/docs/openapi.json", contentType: "application/json"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tc.contentType)
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))

	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Contains(t, spec, "paths")
	assert.Contains(t, rec.Body.String(), "/app/products")
	assert.Contains(t, spec, "openapi")
}
