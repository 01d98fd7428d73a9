package handler

import (
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService   service.UserService
	resultService service.ResultService
}

func NewUserHandler(userService service.UserService, resultService service.ResultService) *UserHandler {
	return &UserHandler{userService: userService, resultService: resultService}
}

// Me returns the caller's profile and stats.
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserProfileResponse(user))
}

// UpdateMe edits the caller's profile. Email cannot change.
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserProfileResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid field"
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Malformed request body", Status: fiber.StatusBadRequest,
		})
	}

	user, err := h.userService.UpdateProfile(c.Context(), callerID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserProfileResponse(user))
}

// MyResults lists the caller's attempt history, newest first.
// @Summary Get own attempt history
// @Tags users
// @Produce json
// @Success 200 {object} dto.QuizResultListResponse
// @Security BearerAuth
// @Router /users/me/results [get]
func (h *UserHandler) MyResults(c *fiber.Ctx) error {
	results, err := h.resultService.UserResults(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResultListResponse(results))
}

// UploadPhoto stores a new profile photo and returns its public URL.
// @Summary Upload profile photo
// @Tags users
// @Accept mpfd
// @Produce json
// @Param photo formData file true "Photo file"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing file or uploads disabled"
// @Security BearerAuth
// @Router /users/me/photo [post]
func (h *UserHandler) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_FILE", Message: "photo file is required", Status: fiber.StatusBadRequest,
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "UNREADABLE_FILE", Message: "could not read uploaded file", Status: fiber.StatusBadRequest,
		})
	}
	defer file.Close()

	photoURL, err := h.userService.UploadProfilePhoto(c.Context(), callerID(c), fileHeader.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: photoURL})
}
