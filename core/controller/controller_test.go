package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volops/core/errors"
)

func TestStatusForCode(t *testing.T) {
	cases := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrInvalidInput, http.StatusBadRequest},
		{errors.ErrEventFull, http.StatusBadRequest},
		{errors.ErrEventClosed, http.StatusBadRequest},
		{errors.ErrUnauthorized, http.StatusUnauthorized},
		{errors.ErrTokenExpired, http.StatusUnauthorized},
		{errors.ErrForbidden, http.StatusForbidden},
		{errors.ErrEventNotFound, http.StatusNotFound},
		{errors.ErrNotRegistered, http.StatusNotFound},
		{errors.ErrAlreadyRegistered, http.StatusConflict},
		{errors.ErrAlreadyExists, http.StatusConflict},
		{errors.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{errors.ErrInternalServer, http.StatusInternalServerError},
		{errors.ErrorCode("something-new"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusForCode(tc.code), "code %s", tc.code)
	}
}

func TestErrorResponseMapsAppError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	h := NewBaseController()
	appErr := errors.NewAppError(errors.ErrEventFull, "Event is full", nil)
	require.NoError(t, h.ErrorResponse(ctx, appErr))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, errors.ErrEventFull, body.Code)
	assert.Equal(t, "Event is full", body.Message)
}

func TestErrorResponseDefaultsTo500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	h := NewBaseController()
	require.NoError(t, h.ErrorResponse(ctx, assertableError("boom")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrInternalServer, body.Code)
	assert.Equal(t, "boom", body.Message)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestSuccessResponseEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	h := NewBaseController()
	require.NoError(t, h.SuccessResponse(ctx, map[string]string{"id": "1"}, "Success"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)
	assert.Equal(t, "Success", body.Message)
}
