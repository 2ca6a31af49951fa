package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const MaxPageSize = 100

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts pagination parameters from request.
// Malformed or out of range values fall back to page 1 and defaultSize.
func GetPaginationParams(c echo.Context, defaultSize int) PaginationParams {
	return NewPaginationParams(c.QueryParam("page"), c.QueryParam("limit"), defaultSize)
}

func NewPaginationParams(pageRaw, limitRaw string, defaultSize int) PaginationParams {
	page, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	if err != nil || page <= 0 {
		page = 1
	}

	pageSize, err := strconv.Atoi(strings.TrimSpace(limitRaw))
	if err != nil || pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// Keep the offset representable. Such a page is always past the end.
	if page > math.MaxInt/pageSize {
		page = math.MaxInt / pageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// ParseOptionalFloat returns nil for empty or malformed input.
func ParseOptionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
