package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/exam-service/internal/services"
	"github.com/edutrack/exam-service/internal/utils"
	"github.com/edutrack/exam-service/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	paperService services.PaperService
	validator    *validator.Validator
}

func NewQuestionHandler(
	paperService services.PaperService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:  NewBaseHandler(logger),
		paperService: paperService,
		validator:    validator,
	}
}

// ListPapers lists paper documents stored for an exam
// @Summary List papers
// @Description Lists the paper documents attached to an exam
// @Tags papers
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {array} models.PaperDocument
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers [get]
func (h *QuestionHandler) ListPapers(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	papers, err := h.paperService.ListPapers(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, papers)
}

// GetQuestions lists the questions of one paper
// @Summary Get paper questions
// @Description Returns the questions stored in one paper document
// @Tags papers
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Success 200 {array} models.QuestionRecord
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions [get]
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}

	questions, err := h.paperService.GetQuestions(c.Request.Context(), examID, paperID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// ReplaceQuestions replaces the full question list of a paper
// @Summary Replace paper questions
// @Description Replaces the entire question list; the request must carry the
// version read earlier, a stale version is rejected with 409
// @Tags papers
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Param questions body services.ReplaceQuestionsRequest true "Question list with version"
// @Success 200 {object} models.PaperDocument
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions [put]
func (h *QuestionHandler) ReplaceQuestions(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}

	h.LogRequest(c, "Replacing paper questions", "exam_id", examID, "paper_id", paperID)

	var req services.ReplaceQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	paper, err := h.paperService.ReplaceQuestions(c.Request.Context(), examID, paperID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paper)
}

// AddQuestion appends one question to a paper
// @Summary Add question
// @Description Appends a single question to the paper document
// @Tags papers
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.QuestionRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions [post]
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}

	h.LogRequest(c, "Adding question", "exam_id", examID, "paper_id", paperID)

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.paperService.AddQuestion(c.Request.Context(), examID, paperID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion patches one question inside a paper
// @Summary Update question
// @Description Applies a partial update to one question of the paper
// @Tags papers
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Param question_id path string true "Question ID"
// @Param question body services.UpdateQuestionRequest true "Question patch"
// @Success 200 {object} models.QuestionRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions/{question_id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}
	questionID := c.Param("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid question_id"})
		return
	}

	h.LogRequest(c, "Updating question", "exam_id", examID, "paper_id", paperID, "question_id", questionID)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.paperService.UpdateQuestion(c.Request.Context(), examID, paperID, questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes one question from a paper
// @Summary Delete question
// @Description Removes a single question from the paper document
// @Tags papers
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Param question_id path string true "Question ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions/{question_id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}
	questionID := c.Param("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid question_id"})
		return
	}

	h.LogRequest(c, "Deleting question", "exam_id", examID, "paper_id", paperID, "question_id", questionID)

	if err := h.paperService.DeleteQuestion(c.Request.Context(), examID, paperID, questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePaper removes a whole paper document
// @Summary Delete paper
// @Description Deletes the paper document and all its questions
// @Tags papers
// @Produce json
// @Param id path uint true "Exam ID"
// @Param paper_id path uint true "Paper ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /exams/{id}/papers/{paper_id}/questions [delete]
func (h *QuestionHandler) DeletePaper(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}
	paperID := h.parseIDParam(c, "paper_id")
	if paperID == 0 {
		return
	}

	h.LogRequest(c, "Deleting paper", "exam_id", examID, "paper_id", paperID)

	if err := h.paperService.DeletePaper(c.Request.Context(), examID, paperID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
