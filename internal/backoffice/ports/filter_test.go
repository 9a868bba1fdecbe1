package ports_test

import (
	"math"
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		page ports.Page
		want ports.Page
	}{
		{"defaults", ports.Page{}, ports.Page{Number: 1, Limit: ports.DefaultPageLimit}},
		{"limit capped", ports.Page{Number: 2, Limit: 500}, ports.Page{Number: 2, Limit: ports.MaxPageLimit}},
		{"negative page", ports.Page{Number: -3, Limit: 5}, ports.Page{Number: 1, Limit: 5}},
		{"huge page capped", ports.Page{Number: math.MaxInt, Limit: 10}, ports.Page{Number: math.MaxInt / 10, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.Normalize())
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := ports.Paginate(items, ports.Page{Number: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, got.Items)
	assert.Equal(t, 5, got.Total)

	got = ports.Paginate(items, ports.Page{Number: 3, Limit: 2})
	assert.Equal(t, []int{5}, got.Items)

	got = ports.Paginate(items, ports.Page{Number: 9, Limit: 2})
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.Equal(t, 5, got.Total)
}

func TestPaginateHugePageNumber(t *testing.T) {
	for _, number := range []int{math.MaxInt / 10, math.MaxInt/10 + 2, math.MaxInt} {
		page := ports.Page{Number: number, Limit: 10}

		require.NotPanics(t, func() {
			got := ports.Paginate([]int{1, 2, 3}, page)
			assert.Empty(t, got.Items)
			assert.Equal(t, 3, got.Total)
		})
		assert.GreaterOrEqual(t, page.Offset(), 0)
		assert.Equal(t, 1, page.Pages(3))
	}
}
