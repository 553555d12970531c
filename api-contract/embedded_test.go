package apicontract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/storefront-catalog/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/products", "/api/v1/products/import", "/api/v1/products/{id}", "/app/products", "/healthz"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
	assert.NotEmpty(t, apicontract.Raw())
}
