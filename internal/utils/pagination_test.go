package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePagination_SinglePage(t *testing.T) {
	assert.Nil(t, GeneratePagination(1, 1))
	assert.Nil(t, GeneratePagination(1, 0))
}

func TestGeneratePagination_Window(t *testing.T) {
	p := GeneratePagination(6, 10)
	require.NotNil(t, p)

	var numbers []int
	for _, page := range p.Pages {
		numbers = append(numbers, page.Number)
		if page.Number == 6 {
			assert.False(t, page.IsLink)
		}
	}
	assert.Equal(t, []int{1, 0, 4, 5, 6, 7, 8, 0, 10}, numbers)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, 5, p.PrevPage)
	assert.Equal(t, 7, p.NextPage)
}

func TestGeneratePagination_NoDuplicates(t *testing.T) {
	p := GeneratePagination(1, 3)
	require.NotNil(t, p)

	var numbers []int
	for _, page := range p.Pages {
		numbers = append(numbers, page.Number)
	}
	assert.Equal(t, []int{1, 2, 3}, numbers)
	assert.False(t, p.HasPrev)
}

func TestTotalPagesAndClamp(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, ClampPage(-3, 5))
	assert.Equal(t, 5, ClampPage(9, 5))
	assert.Equal(t, 1, ClampPage(2, 0))
}
