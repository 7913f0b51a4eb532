package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/http/response"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
	lessonService services.LessonService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService, lessonService services.LessonService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
		lessonService: lessonService,
	}
}

// GET /courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /courses/:id/lessons
func (h *CourseHandler) ListCourseLessons(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lessons, err := h.lessonService.ListByCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}
