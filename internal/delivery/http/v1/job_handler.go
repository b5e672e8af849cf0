package v1

import (
	"net/http"
	"strconv"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// PUBLIC routes - job browsing needs no account
	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	// PROTECTED routes - authentication required
	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
		protectedJobs.POST("/:id/save", handler.Save)
		protectedJobs.DELETE("/:id/save", handler.Unsave)
		protectedJobs.GET("/saved", handler.ListSaved)
	}

	// Hirer-specific job routes (only shows the hirer's own postings)
	hirers := protected.Group("/hirers")
	{
		hirers.GET("/jobs", handler.ListByHirer)
	}
}

type JobRequest struct {
	Title         string `json:"title" binding:"required"`
	Company       string `json:"company" binding:"required"`
	WorkplaceType string `json:"workplace_type" binding:"required,oneof=Onsite Remote Hybrid"`
	Location      string `json:"location" binding:"required"`
	JobType       string `json:"job_type" binding:"required"`
	Category      string `json:"category" binding:"required"`
	SubCategory   string `json:"sub_category"`
	Description   string `json:"description" binding:"required"`
}

// Create godoc
// @Summary      Create a new job
// @Description  Create a new job posting (Hirer only)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	// 1. Role Check
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleHirer && role != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Only hirers can create job postings"))
		return
	}

	// 2. Bind JSON
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))

	job := &domain.Job{
		Title:         req.Title,
		Company:       req.Company,
		WorkplaceType: req.WorkplaceType,
		Location:      req.Location,
		JobType:       req.JobType,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		Description:   req.Description,
	}

	if err := h.jobUC.CreateJob(c, userID, job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// List godoc
// @Summary      List jobs
// @Description  Get a paginated list of job postings
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := h.jobUC.ListJobs(c, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job list", gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJobDetails(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job details", job)
}

func (h *JobHandler) ListByHirer(c *gin.Context) {
	role := c.GetString(string(domain.KeyUserRole))
	if role != domain.RoleHirer && role != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Only hirers can access their job list"))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	jobs, err := h.jobUC.ListJobsByHirer(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Hirer job list", gin.H{"jobs": jobs})
}

func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := &domain.Job{
		ID:            id,
		Title:         req.Title,
		Company:       req.Company,
		WorkplaceType: req.WorkplaceType,
		Location:      req.Location,
		JobType:       req.JobType,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		Description:   req.Description,
	}

	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if err := h.jobUC.UpdateJob(c, userID, role, job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if err := h.jobUC.DeleteJob(c, userID, role, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted successfully", nil)
}

func (h *JobHandler) Save(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.jobUC.SaveJob(c, userID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job saved", nil)
}

func (h *JobHandler) Unsave(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.jobUC.UnsaveJob(c, userID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job removed from saved list", nil)
}

func (h *JobHandler) ListSaved(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	jobs, err := h.jobUC.ListSavedJobs(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Saved jobs", gin.H{"jobs": jobs})
}

// pathID parses an int64 path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}
