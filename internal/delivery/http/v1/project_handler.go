package v1

import (
	"net/http"

	"karya-backend/internal/delivery/http/middleware"
	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
	"karya-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
	validate  *validator.Validate
}

func NewProjectHandler(protected *gin.RouterGroup, projectUC domain.ProjectUsecase, validate *validator.Validate) {
	handler := &ProjectHandler{projectUC: projectUC, validate: validate}

	projects := protected.Group("/projects")
	{
		projects.POST("", handler.Create)
		projects.GET("", handler.List)
		projects.GET("/stats", middleware.RoleRequired(domain.RoleAdmin), handler.Stats)
		projects.GET("/:id", handler.Get)
		projects.PATCH("/:id/complete", handler.MarkComplete)
		projects.POST("/:id/tasks", handler.AddTask)
		projects.PATCH("/:id/tasks/:taskId", handler.UpdateTaskStatus)
	}
}

// Create godoc
// @Summary      Create a project
// @Description  Start a project from a completed interview whose applicant was hired (Hirer only)
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      domain.CreateProjectInput  true  "Project JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}

	var in domain.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	project, err := h.projectUC.Create(c, hirerID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Project created", project)
}

// List returns the caller's projects: postings they pay for as a hirer, or
// work they deliver as a freelancer.
func (h *ProjectHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	var (
		projects []domain.Project
		err      error
	)
	if role == domain.RoleHirer {
		projects, err = h.projectUC.ListForHirer(c, userID)
	} else {
		projects, err = h.projectUC.ListForFreelancer(c, userID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Projects", gin.H{"projects": projects})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	project, err := h.projectUC.Get(c, userID, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project details", project)
}

func (h *ProjectHandler) MarkComplete(c *gin.Context) {
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
	if err := h.projectUC.MarkComplete(c, hirerID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project completed", nil)
}

func (h *ProjectHandler) AddTask(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var in domain.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	task, err := h.projectUC.AddTask(c, hirerID, id, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Task added", task)
}

type TaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ProjectHandler) UpdateTaskStatus(c *gin.Context) {
	projectID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		c.Error(err)
		return
	}

	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	task, err := h.projectUC.UpdateTaskStatus(c, userID, projectID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Task updated", task)
}

// Stats returns platform-wide project completion counts.
func (h *ProjectHandler) Stats(c *gin.Context) {
	stats, err := h.projectUC.CompletionStats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Completion stats", stats)
}
