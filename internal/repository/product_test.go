package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceToNumeric(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		price float64
		want  float64
	}{
		{price: 19.99, want: 19.99},
		{price: 0, want: 0},
		{price: 5, want: 5},
		{price: 3.456, want: 3.46},
		{price: 1e12, want: 1e12},
	}

	for _, tc := range testCases {
		n, err := priceToNumeric(tc.price)
		require.NoError(t, err)
		require.True(t, n.Valid)

		f, err := n.Float64Value()
		require.NoError(t, err)
		assert.InDelta(t, tc.want, f.Float64, 1e-9)
	}
}
