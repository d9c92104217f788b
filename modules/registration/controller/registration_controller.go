package controller

import (
	"net/mail"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"volops/core/controller"
	"volops/core/errors"
	authcontroller "volops/modules/auth/controller"
	"volops/modules/registration/dto"
	"volops/modules/registration/service"
)

// RegistrationController handles registration HTTP requests
type RegistrationController struct {
	controller.BaseController
	RegistrationService service.RegistrationServiceInterface
}

// NewRegistrationController creates a new controller
func NewRegistrationController(svc service.RegistrationServiceInterface) *RegistrationController {
	return &RegistrationController{
		BaseController:      controller.NewBaseController(),
		RegistrationService: svc,
	}
}

// Register handles POST /private/events/:id/register
func (c *RegistrationController) Register(ctx echo.Context) error {
	userID, eventID, req, httpErr := c.bindWrite(ctx)
	if httpErr != nil {
		return httpErr
	}

	result, appErr := c.RegistrationService.Register(ctx.Request().Context(), eventID, userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Registered successfully")
}

// Deregister handles DELETE /private/events/:id/register
func (c *RegistrationController) Deregister(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RegistrationService.Deregister(ctx.Request().Context(), eventID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Registration cancelled")
}

// Toggle handles POST /private/events/:id/toggle
func (c *RegistrationController) Toggle(ctx echo.Context) error {
	userID, eventID, req, httpErr := c.bindWrite(ctx)
	if httpErr != nil {
		return httpErr
	}

	result, appErr := c.RegistrationService.Toggle(ctx.Request().Context(), eventID, userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Registration toggled")
}

// ListRegistrations handles GET /private/events/:id/registrations
func (c *RegistrationController) ListRegistrations(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RegistrationService.ListActiveRegistrations(ctx.Request().Context(), eventID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

func (c *RegistrationController) bindWrite(ctx echo.Context) (uuid.UUID, uuid.UUID, *dto.RegisterRequest, *echo.HTTPError) {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return uuid.Nil, uuid.Nil, nil, c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	if validation := validateContactInfo(&req); len(validation) > 0 {
		return uuid.Nil, uuid.Nil, nil, c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validation)
	}

	return userID, eventID, &req, nil
}

func validateContactInfo(req *dto.RegisterRequest) []controller.ValidationError {
	var result []controller.ValidationError
	if req.Name == "" {
		result = append(result, controller.NewValidationError("name", "is required"))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		result = append(result, controller.NewValidationError("email", "must be a valid email address"))
	}
	return result
}
