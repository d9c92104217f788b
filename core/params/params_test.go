package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"volops/core/constants"
)

func paramsFor(t *testing.T, query string) QueryParams {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContextDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, constants.DefaultPageNumber, p.PageNumber)
	assert.Equal(t, constants.DefaultPageSize, p.PageSize)
	assert.Empty(t, p.Category)
	assert.False(t, p.Upcoming)
}

func TestFromContextParsesFilters(t *testing.T) {
	p := paramsFor(t, "page=3&page_size=15&category=environment&upcoming=true")
	assert.Equal(t, 3, p.PageNumber)
	assert.Equal(t, 15, p.PageSize)
	assert.Equal(t, "environment", p.Category)
	assert.True(t, p.Upcoming)
}

func TestFromContextClampsAndIgnoresGarbage(t *testing.T) {
	p := paramsFor(t, "page=-1&page_size=9999&upcoming=banana")
	assert.Equal(t, constants.DefaultPageNumber, p.PageNumber)
	assert.Equal(t, constants.MaxPageSize, p.PageSize)
	assert.False(t, p.Upcoming)
}
