package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
)

type deleteRequest struct {
	ProductID string `validate:"required,uuid"`
}

type session struct {
	Shop string `validate:"required,shopdomain"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		input   any
		wantTag string
	}{
		{name: "valid uuid", input: deleteRequest{ProductID: "0190a5e2-7c1e-7cc3-8f7a-4c2a8f5d9b10"}},
		{name: "missing id", input: deleteRequest{}, wantTag: "required"},
		{name: "not a uuid", input: deleteRequest{ProductID: "gid://shopify/Product/1"}, wantTag: "uuid"},
		{name: "valid shop", input: session{Shop: "demo-store.myshopify.com"}},
		{name: "foreign domain", input: session{Shop: "example.com"}, wantTag: "shopdomain"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.input)
			if tc.wantTag == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))

			var fieldErrs govalidator.ValidationErrors
			require.True(t, errors.As(err, &fieldErrs))
			assert.Equal(t, tc.wantTag, fieldErrs[0].Tag())
			assert.NotEqual(t, "is invalid", validator.ValidationErrorMessage(fieldErrs[0]))
		})
	}
}
