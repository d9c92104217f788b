package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"volops/core/controller"
	"volops/core/errors"
	"volops/core/params"
	authcontroller "volops/modules/auth/controller"
	"volops/modules/event/dto"
	"volops/modules/event/service"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// List handles GET /events
func (c *EventController) List(ctx echo.Context) error {
	p := params.FromContext(ctx)

	result, appErr := c.EventService.List(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetByID handles GET /events/:id
func (c *EventController) GetByID(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Create handles POST /private/events
func (c *EventController) Create(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	if validation := validateCreateEvent(&req); len(validation) > 0 {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validation)
	}

	result, appErr := c.EventService.Create(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created")
}

// ListMine handles GET /private/events/mine
func (c *EventController) ListMine(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.EventService.ListMine(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Update handles PUT /private/events/:id
func (c *EventController) Update(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	result, appErr := c.EventService.Update(ctx.Request().Context(), eventID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated")
}

// Delete handles DELETE /private/events/:id
func (c *EventController) Delete(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.Delete(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted")
}

// UploadImage handles POST /private/events/:id/image
func (c *EventController) UploadImage(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Missing image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Unable to read image file")
	}
	defer file.Close()

	result, appErr := c.EventService.UploadImage(
		ctx.Request().Context(),
		eventID,
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Image uploaded")
}

// UpcomingEvents handles GET /private/dashboard/upcoming-events
func (c *EventController) UpcomingEvents(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.EventService.ListUpcomingForUser(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

func validateCreateEvent(req *dto.CreateEventRequest) []controller.ValidationError {
	var result []controller.ValidationError
	if req.Title == "" {
		result = append(result, controller.NewValidationError("title", "is required"))
	}
	if req.Organization == "" {
		result = append(result, controller.NewValidationError("organization", "is required"))
	}
	if req.Category == "" {
		result = append(result, controller.NewValidationError("category", "is required"))
	}
	if req.Location == "" {
		result = append(result, controller.NewValidationError("location", "is required"))
	}
	if req.StartAt.IsZero() {
		result = append(result, controller.NewValidationError("start_at", "is required"))
	}
	if req.MaxParticipants < 1 {
		result = append(result, controller.NewValidationError("max_participants", "must be at least 1"))
	}
	return result
}
