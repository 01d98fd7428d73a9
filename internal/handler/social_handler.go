package handler

import (
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SocialHandler serves favorites and ratings.
type SocialHandler struct {
	favoriteService service.FavoriteService
	ratingService   service.RatingService
}

func NewSocialHandler(favoriteService service.FavoriteService, ratingService service.RatingService) *SocialHandler {
	return &SocialHandler{favoriteService: favoriteService, ratingService: ratingService}
}

// AddFavorite marks a quiz as favorited; repeating it is a no-op.
// @Summary Favorite a quiz
// @Tags social
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.FavoriteStatusResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id}/favorite [put]
func (h *SocialHandler) AddFavorite(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.favoriteService.Add(c.Context(), callerID(c), quizID); err != nil {
		return err
	}
	return c.JSON(dto.FavoriteStatusResponse{QuizID: quizID, IsFavorite: true})
}

// RemoveFavorite unmarks a quiz; removing an absent favorite is a no-op.
// @Summary Unfavorite a quiz
// @Tags social
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.FavoriteStatusResponse
// @Security BearerAuth
// @Router /quizzes/{id}/favorite [delete]
func (h *SocialHandler) RemoveFavorite(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.favoriteService.Remove(c.Context(), callerID(c), quizID); err != nil {
		return err
	}
	return c.JSON(dto.FavoriteStatusResponse{QuizID: quizID, IsFavorite: false})
}

// FavoriteStatus reports whether the caller has favorited the quiz.
// @Summary Check favorite status
// @Tags social
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.FavoriteStatusResponse
// @Security BearerAuth
// @Router /quizzes/{id}/favorite [get]
func (h *SocialHandler) FavoriteStatus(c *fiber.Ctx) error {
	quizID := c.Params("id")
	isFavorite, err := h.favoriteService.IsFavorite(c.Context(), callerID(c), quizID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FavoriteStatusResponse{QuizID: quizID, IsFavorite: isFavorite})
}

// MyFavorites lists the caller's favorite quizzes, most recent first.
// @Summary List own favorites
// @Tags social
// @Produce json
// @Success 200 {object} dto.QuizListResponse
// @Security BearerAuth
// @Router /users/me/favorites [get]
func (h *SocialHandler) MyFavorites(c *fiber.Ctx) error {
	quizzes, err := h.favoriteService.UserFavorites(c.Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(quizzes))
}

// Rate stores or replaces the caller's rating of a quiz.
// @Summary Rate a quiz
// @Tags social
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.RateQuizRequest true "Rating payload"
// @Success 200 {object} dto.RatingResponse
// @Failure 400 {object} middleware.ErrorResponse "Rating out of range"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id}/rate [put]
func (h *SocialHandler) Rate(c *fiber.Ctx) error {
	var req dto.RateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_BODY", Message: "Malformed request body", Status: fiber.StatusBadRequest,
		})
	}

	rating, err := h.ratingService.Rate(c.Context(), callerID(c), c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRatingResponse(rating))
}

// QuizRatings lists every rating of one quiz, newest first.
// @Summary List quiz ratings
// @Tags social
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.RatingListResponse
// @Router /quizzes/{id}/ratings [get]
func (h *SocialHandler) QuizRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.QuizRatings(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRatingListResponse(ratings))
}

// MyRating returns the caller's rating of a quiz, if any.
// @Summary Get own rating of a quiz
// @Tags social
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.RatingResponse
// @Failure 404 {object} middleware.ErrorResponse "Not rated yet"
// @Security BearerAuth
// @Router /quizzes/{id}/rating [get]
func (h *SocialHandler) MyRating(c *fiber.Ctx) error {
	rating, err := h.ratingService.UserRating(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	if rating == nil {
		return c.Status(fiber.StatusNotFound).JSON(middleware.ErrorResponse{
			Code: "NOT_RATED", Message: "You have not rated this quiz", Status: fiber.StatusNotFound,
		})
	}
	return c.JSON(dto.NewRatingResponse(rating))
}
