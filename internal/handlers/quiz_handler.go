package handlers

import (
	"net/http"

	"jobnest_backend/internal/services"
	"jobnest_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	*BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(base *BaseHandler, quizService services.QuizService) *QuizHandler {
	return &QuizHandler{
		BaseHandler: base,
		quizService: quizService,
	}
}

func (h *QuizHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quiz := rg.Group("/quiz")
	quiz.Use(h.RequireAuth())
	{
		quiz.GET("/start", h.StartQuiz)
		quiz.POST("/submit", h.SubmitQuiz)
		quiz.GET("/result", h.GetResult)
	}
}

func (h *QuizHandler) StartQuiz(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.quizService.StartQuiz(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitQuizRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.quizService.SubmitQuiz(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuizHandler) GetResult(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.quizService.GetResult(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
