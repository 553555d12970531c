package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predefined error after wrapping", func(t *testing.T) {
		cause := errors.New("no rows in result set")
		err := fmt.Errorf("get product: %w", notFound.WrapParent(cause))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should expose status code and message through errors.As", func(t *testing.T) {
		err := fmt.Errorf("delete product: %w", notFound)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.Equal(t, "product not found", zErr.Msg())
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewBadGateway("REMOTE_CATALOG_FAILED", "remote catalog failed")
		assert.NotErrorIs(t, other, notFound)
	})

	t.Run("Should keep parent out of nil wrap", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found", notFound.Error())
	})

	t.Run("Should override message without losing identity", func(t *testing.T) {
		err := notFound.WithMsg("no product with that id")
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, "no product with that id", err.Msg())
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "BAD_GATEWAY", zerror.StatusBadGateway.String())
	assert.Equal(t, "UNKNOWN", zerror.Status(200).String())
}
