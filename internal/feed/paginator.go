package feed

import (
	"strconv"

	"github.com/yatube/yatube/internal/models"
)

// Page is one window of a feed. Number is 1-based.
type Page struct {
	Items       []models.Post
	Number      int
	PageSize    int
	Total       int64
	NumPages    int
	HasNext     bool
	HasPrevious bool
}

// ParsePage reads a page query value; anything missing, malformed or
// below 1 means the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// newPage computes the window for number over total items. The returned
// offset may lie past the end, in which case the page is empty.
func newPage(total int64, number, size int) (Page, int) {
	if number < 1 {
		number = 1
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	p := Page{
		Items:       []models.Post{},
		Number:      number,
		PageSize:    size,
		Total:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	return p, (number - 1) * size
}
