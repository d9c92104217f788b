package params

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"volops/core/constants"
)

// QueryParams carries common list-endpoint query parameters
type QueryParams struct {
	PageNumber int
	PageSize   int
	Category   string
	Upcoming   bool
}

// FromContext extracts paging and filter parameters from the request,
// clamping to sane bounds.
func FromContext(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: constants.DefaultPageNumber,
		PageSize:   constants.DefaultPageSize,
		Category:   c.QueryParam("category"),
	}

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.PageNumber = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		p.PageSize = v
		if p.PageSize > constants.MaxPageSize {
			p.PageSize = constants.MaxPageSize
		}
	}
	if v, err := strconv.ParseBool(c.QueryParam("upcoming")); err == nil {
		p.Upcoming = v
	}

	return p
}
