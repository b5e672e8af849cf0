package v1

import (
	"net/http"
	"time"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
	"karya-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
	validate    *validator.Validate
}

func NewInterviewHandler(protected *gin.RouterGroup, interviewUC domain.InterviewUsecase, validate *validator.Validate) {
	handler := &InterviewHandler{interviewUC: interviewUC, validate: validate}

	interviews := protected.Group("/interviews")
	{
		interviews.POST("", handler.Schedule)
		interviews.GET("", handler.List)
		interviews.PATCH("/:id/reschedule", handler.Reschedule)
		interviews.PATCH("/:id/cancel", handler.Cancel)
		interviews.PATCH("/:id/outcome", handler.SetOutcome)
	}
}

// Schedule godoc
// @Summary      Schedule an interview
// @Description  Book a calendar meeting for a pending application (Hirer only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        interview  body      domain.ScheduleInterviewInput  true  "Interview JSON"
// @Success      201        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      422        {object}  response.Response
// @Router       /interviews [post]
// @Security     BearerAuth
func (h *InterviewHandler) Schedule(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}

	var in domain.ScheduleInterviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	iv, err := h.interviewUC.Schedule(c, hirerID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview scheduled", iv)
}

func (h *InterviewHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	interviews, err := h.interviewUC.ListForUser(c, userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interviews", gin.H{"interviews": interviews})
}

type RescheduleRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
}

func (h *InterviewHandler) Reschedule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	iv, err := h.interviewUC.Reschedule(c, userID, id, req.ScheduledTime)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview rescheduled", iv)
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *InterviewHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("A cancellation reason is required"))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.interviewUC.Cancel(c, userID, id, req.Reason); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview cancelled", nil)
}

type OutcomeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=Completed Failed"`
}

func (h *InterviewHandler) SetOutcome(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.interviewUC.SetOutcome(c, userID, id, domain.InterviewStatus(req.Outcome)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview outcome recorded", nil)
}
