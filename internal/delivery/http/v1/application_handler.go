package v1

import (
	"net/http"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
	"karya-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
	validate      *validator.Validate
}

func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase, validate *validator.Validate) {
	handler := &ApplicationHandler{applicationUC: applicationUC, validate: validate}

	apps := protected.Group("/applications")
	{
		apps.POST("", handler.Apply)
		apps.GET("/mine", handler.ListMine)
		apps.GET("", handler.ListForHirer)
		apps.GET("/pending-decision", handler.ListPendingDecision)
		apps.GET("/hired", handler.ListHired)
		apps.PATCH("/:id/reject", handler.Reject)
		apps.PATCH("/:id/hire", handler.ConfirmHire)
	}
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Submit an application for a job posting (Freelancer only)
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      domain.ApplyInput  true  "Application JSON"
// @Success      201          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleFreelancer {
		c.Error(apperror.Forbidden("Only freelancers can apply to jobs"))
		return
	}

	var in domain.ApplyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	app, err := h.applicationUC.Apply(c, userID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application submitted", app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	apps, err := h.applicationUC.ListForFreelancer(c, userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My applications", gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListForHirer(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	hirerID := c.GetString(string(domain.KeyUserID))
	apps, err := h.applicationUC.ListForHirer(c, hirerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Received applications", gin.H{"applications": apps})
}

// ListPendingDecision returns applications whose interview finished but
// which are still waiting on a hire or reject call.
func (h *ApplicationHandler) ListPendingDecision(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	hirerID := c.GetString(string(domain.KeyUserID))
	apps, err := h.applicationUC.ListPendingDecision(c, hirerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications pending decision", gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListHired(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	hirerID := c.GetString(string(domain.KeyUserID))
	apps, err := h.applicationUC.ListHired(c, hirerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Hired applications", gin.H{"applications": apps})
}

func (h *ApplicationHandler) Reject(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	if err := h.applicationUC.Reject(c, hirerID, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application rejected", nil)
}

func (h *ApplicationHandler) ConfirmHire(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	if err := h.applicationUC.ConfirmHire(c, hirerID, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicant hired", nil)
}

// requireHirer rejects callers that are neither hirer nor admin.
func requireHirer(c *gin.Context) error {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleHirer && role != domain.RoleAdmin {
		return apperror.Forbidden("Only hirers can perform this action")
	}
	return nil
}
