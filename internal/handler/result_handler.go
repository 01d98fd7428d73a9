package handler

import (
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ResultHandler struct {
	resultService service.ResultService
}

func NewResultHandler(resultService service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// Complete submits a finished attempt for grading.
// @Summary Complete a quiz
// @Description Grades the submitted answers and records the immutable result.
// @Tags results
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.CompleteQuizRequest true "Selected option per question id"
// @Success 201 {object} dto.QuizResultResponse
// @Failure 403 {object} middleware.ErrorResponse "Quiz is private"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id}/complete [post]
func (h *ResultHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Malformed request body", Status: fiber.StatusBadRequest,
		})
	}
	if req.Answers == nil {
		req.Answers = map[string]int{}
	}

	result, err := h.resultService.Complete(c.Context(), callerID(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResultResponse(result))
}

// QuizResults lists all recorded attempts of one quiz.
// @Summary List quiz results
// @Tags results
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResultListResponse
// @Security BearerAuth
// @Router /quizzes/{id}/results [get]
func (h *ResultHandler) QuizResults(c *fiber.Ctx) error {
	results, err := h.resultService.QuizResults(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResultListResponse(results))
}

// BestResult returns the caller's highest-scoring attempt of one quiz.
// @Summary Best result for a quiz
// @Tags results
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 404 {object} middleware.ErrorResponse "No attempts yet"
// @Security BearerAuth
// @Router /quizzes/{id}/best-result [get]
func (h *ResultHandler) BestResult(c *fiber.Ctx) error {
	best, err := h.resultService.BestResult(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	if best == nil {
		return c.Status(fiber.StatusNotFound).JSON(middleware.ErrorResponse{
			Code: "NO_ATTEMPTS", Message: "No attempts recorded for this quiz", Status: fiber.StatusNotFound,
		})
	}
	return c.JSON(dto.NewQuizResultResponse(best))
}
