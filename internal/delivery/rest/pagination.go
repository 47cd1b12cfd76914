package rest

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

const (
	headerTotalCount = "X-Total-Count"
	headerTotalPages = "X-Total-Pages"
	defaultPageSize  = 50
)

// paginate slices items by the page and page_size query params and sets
// the total headers.
func paginate[T any](c echo.Context, items []T) []T {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "page_size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}

	c.Response().Header().Set(headerTotalCount, strconv.Itoa(len(items)))
	c.Response().Header().Set(headerTotalPages, strconv.Itoa(entities.TotalPages(len(items), size)))

	out, _ := entities.Paginate(items, page, size)
	return out
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}
