package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_PagesIsCeilOfTotalOverLimit(t *testing.T) {
	// Arrange
	testCases := []struct {
		name     string
		limit    int
		total    int64
		expected int
	}{
		{"пустой набор", 20, 0, 0},
		{"меньше одной страницы", 20, 7, 1},
		{"ровно одна страница", 20, 20, 1},
		{"кратное число страниц", 20, 40, 2},
		{"остаток дает дополнительную страницу", 20, 41, 3},
		{"один элемент на страницу", 1, 5, 5},
		{"нулевой limit не делит на ноль", 0, 100, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(1, tc.limit, tc.total)
			assert.Equal(t, tc.expected, p.Pages, "pages должен быть ceil(total/limit)")
		})
	}
}

func TestNewPagination_EchoesPageLimitTotal(t *testing.T) {
	// Act
	p := NewPagination(3, 25, 120)

	// Assert
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, int64(120), p.Total)
	assert.Equal(t, 5, p.Pages)
}
