package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/services"
	"github.com/edutrack/exam-service/internal/utils"
	"github.com/edutrack/exam-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
	resultService  services.ResultService
	examService    services.ExamService
	validator      *validator.Validator
}

func NewStudentHandler(
	studentService services.StudentService,
	resultService services.ResultService,
	examService services.ExamService,
	validator *validator.Validator,
	logger utils.Logger,
) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
		resultService:  resultService,
		examService:    examService,
		validator:      validator,
	}
}

// CreateStudent registers a new student
// @Summary Create student
// @Description Registers a new student, optionally with login credentials
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student data"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudent retrieves a student by ID
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent updates an existing student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path uint true "Student ID"
// @Param student body services.UpdateStudentRequest true "Student update data"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating student", "student_id", id)

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student together with their results and account
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting student", "student_id", id)

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListStudents lists students with filtering and pagination
// @Summary List students
// @Tags students
// @Produce json
// @Param class query string false "Filter by class"
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} services.StudentListResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	filters := repositories.StudentFilters{
		SortBy:    c.DefaultQuery("sort_by", "name"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}

	if class := c.Query("class"); class != "" {
		filters.Class = &class
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size

	resp, err := h.studentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetOwnProfile returns the authenticated student's profile
// @Summary Get own profile
// @Tags students
// @Produce json
// @Success 200 {object} models.Student
// @Failure 403 {object} ErrorResponse
// @Router /students/me [get]
func (h *StudentHandler) GetOwnProfile(c *gin.Context) {
	studentID, ok := currentStudentID(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "No student profile linked to this account",
		})
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetOwnExams lists upcoming and active exams for the authenticated student
// @Summary Get own exams
// @Tags students
// @Produce json
// @Success 200 {object} services.ExamListResponse
// @Failure 403 {object} ErrorResponse
// @Router /students/me/exams [get]
func (h *StudentHandler) GetOwnExams(c *gin.Context) {
	if _, ok := currentStudentID(c); !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "No student profile linked to this account",
		})
		return
	}

	resp, err := h.examService.List(c.Request.Context(), repositories.ExamFilters{
		SortBy:    "date",
		SortOrder: "asc",
		Limit:     100,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Upcoming and active exams only: statuses in the list response are
	// already derived from a single clock read.
	open := make([]*models.Exam, 0, len(resp.Exams))
	for _, exam := range resp.Exams {
		if exam.Status != models.ExamCompleted {
			open = append(open, exam)
		}
	}

	c.JSON(http.StatusOK, services.ExamListResponse{
		Exams: open,
		Total: int64(len(open)),
		Page:  1,
		Size:  len(open),
	})
}

// GetOwnResults lists the authenticated student's results with ranks
// @Summary Get own results
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentPerformance
// @Failure 403 {object} ErrorResponse
// @Router /students/me/results [get]
func (h *StudentHandler) GetOwnResults(c *gin.Context) {
	studentID, ok := currentStudentID(c)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "No student profile linked to this account",
		})
		return
	}

	performance, err := h.resultService.GetStudentPerformance(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, performance)
}

// GetStudentResults lists one student's results with ranks (admin view)
// @Summary Get student results
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} services.StudentPerformance
// @Failure 404 {object} ErrorResponse
// @Router /students/{id}/results [get]
func (h *StudentHandler) GetStudentResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	performance, err := h.resultService.GetStudentPerformance(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, performance)
}
