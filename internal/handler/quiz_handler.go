package handler

import (
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuizHandler struct {
	quizService service.QuizService
	userService service.UserService
}

func NewQuizHandler(quizService service.QuizService, userService service.UserService) *QuizHandler {
	return &QuizHandler{quizService: quizService, userService: userService}
}

// callerID reads the authenticated user id set by the auth middleware;
// empty for anonymous requests behind OptionalAuth.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.UserIDKey).(string); ok {
		return id
	}
	return ""
}

// Create authors a new quiz.
// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz payload"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation failure"
// @Security BearerAuth
// @Router /quizzes [post]
func (h *QuizHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Malformed request body", Status: fiber.StatusBadRequest,
		})
	}

	creator, err := h.userService.Get(c.Context(), callerID(c))
	if err != nil {
		return err
	}

	quiz, err := h.quizService.Create(c.Context(), creator, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(quiz))
}

// Get loads one quiz with its questions.
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse "Quiz is private"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	quiz, err := h.quizService.Get(c.Context(), c.Params("id"), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// Update edits a quiz; creator only.
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse "Caller is not the creator"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id} [patch]
func (h *QuizHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Malformed request body", Status: fiber.StatusBadRequest,
		})
	}

	quiz, err := h.quizService.Update(c.Context(), c.Params("id"), callerID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// Delete removes a quiz; creator only.
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} middleware.ErrorResponse "Caller is not the creator"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) Delete(c *fiber.Ctx) error {
	if err := h.quizService.Delete(c.Context(), c.Params("id"), callerID(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz deleted"})
}

// Public lists public quizzes, newest first.
// @Summary List public quizzes
// @Tags quizzes
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes/public [get]
func (h *QuizHandler) Public(c *fiber.Ctx) error {
	quizzes, err := h.quizService.Public(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// ByCategory lists public quizzes in one category.
// @Summary List quizzes by category
// @Tags quizzes
// @Produce json
// @Param category path string true "Category"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ErrorResponse "Unknown category"
// @Router /quizzes/category/{category} [get]
func (h *QuizHandler) ByCategory(c *fiber.Ctx) error {
	category, err := domain.ParseCategory(c.Params("category"))
	if err != nil {
		return err
	}
	quizzes, err := h.quizService.ByCategory(c.Context(), category, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// ByLevel lists public quizzes at one difficulty level.
// @Summary List quizzes by level
// @Tags quizzes
// @Produce json
// @Param level path string true "Level"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ErrorResponse "Unknown level"
// @Router /quizzes/level/{level} [get]
func (h *QuizHandler) ByLevel(c *fiber.Ctx) error {
	level, err := domain.ParseLevel(c.Params("level"))
	if err != nil {
		return err
	}
	quizzes, err := h.quizService.ByLevel(c.Context(), level, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// Recommended lists the best-rated public quizzes.
// @Summary List recommended quizzes
// @Tags quizzes
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes/recommended [get]
func (h *QuizHandler) Recommended(c *fiber.Ctx) error {
	quizzes, err := h.quizService.Recommended(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// Popular lists the most-attempted public quizzes.
// @Summary List popular quizzes
// @Tags quizzes
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes/popular [get]
func (h *QuizHandler) Popular(c *fiber.Ctx) error {
	quizzes, err := h.quizService.Popular(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// Search matches public quiz titles against a query string.
// @Summary Search quizzes by title
// @Tags quizzes
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes/search [get]
func (h *QuizHandler) Search(c *fiber.Ctx) error {
	quizzes, err := h.quizService.Search(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// ByCreator lists a creator's quizzes; private ones only for the creator.
// @Summary List quizzes by creator
// @Tags quizzes
// @Produce json
// @Param userId path string true "Creator user ID"
// @Success 200 {object} dto.QuizListResponse
// @Router /quizzes/creator/{userId} [get]
func (h *QuizHandler) ByCreator(c *fiber.Ctx) error {
	quizzes, err := h.quizService.ByCreator(c.Context(), c.Params("userId"), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// Mine lists the authenticated user's own quizzes, private ones included.
// @Summary List my quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {object} dto.QuizListResponse
// @Security BearerAuth
// @Router /quizzes/mine [get]
func (h *QuizHandler) Mine(c *fiber.Ctx) error {
	userID := callerID(c)
	quizzes, err := h.quizService.ByCreator(c.Context(), userID, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}
