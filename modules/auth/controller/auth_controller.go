package controller

import (
	"net/mail"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"volops/core/constants"
	"volops/core/controller"
	"volops/core/errors"
	"volops/core/utils"
	"volops/modules/auth/dto"
	"volops/modules/auth/service"
)

// AuthController handles auth HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

// NewAuthController creates a new controller
func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// GetUserIDFromContext extracts the caller's user ID from the JWT claims set
// by the auth middleware.
func GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// SignUp handles POST /auth/signup
func (c *AuthController) SignUp(ctx echo.Context) error {
	var req dto.SignUpRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	if validation := validateSignUp(&req); len(validation) > 0 {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validation)
	}

	result, appErr := c.AuthService.SignUp(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Account created successfully")
}

// Login handles POST /auth/login
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if req.Email == "" || req.Password == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Email and password are required")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Login successful")
}

// Logout handles POST /private/auth/logout
func (c *AuthController) Logout(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}
	token, _ := ctx.Get(constants.ContextRawToken).(string)

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token, claims); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}

// GetProfile handles GET /private/auth/profile
func (c *AuthController) GetProfile(ctx echo.Context) error {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AuthService.GetProfile(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateProfile handles PUT /private/auth/profile
func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	result, appErr := c.AuthService.UpdateProfile(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Profile updated")
}

func validateSignUp(req *dto.SignUpRequest) []controller.ValidationError {
	var result []controller.ValidationError
	if _, err := mail.ParseAddress(req.Email); err != nil {
		result = append(result, controller.NewValidationError("email", "must be a valid email address"))
	}
	if len(req.Password) < 8 {
		result = append(result, controller.NewValidationError("password", "must be at least 8 characters"))
	}
	if req.FullName == "" {
		result = append(result, controller.NewValidationError("full_name", "is required"))
	}
	return result
}
