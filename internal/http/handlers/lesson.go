package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/http/response"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type LessonHandler struct {
	log           *logger.Logger
	lessonService services.LessonService
	quizService   services.QuizService
}

func NewLessonHandler(log *logger.Logger, lessonService services.LessonService, quizService services.QuizService) *LessonHandler {
	return &LessonHandler{
		log:           log.With("handler", "LessonHandler"),
		lessonService: lessonService,
		quizService:   quizService,
	}
}

// GET /lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lesson, err := h.lessonService.GetLesson(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// GET /lessons/:id/quiz
func (h *LessonHandler) GetQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	questions, err := h.lessonService.GetQuizQuestions(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /lessons/:id/quiz/submit
// body: { "answers": [0, 2, 1] }
func (h *LessonHandler) SubmitQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.SubmitQuizInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.quizService.SubmitQuiz(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
