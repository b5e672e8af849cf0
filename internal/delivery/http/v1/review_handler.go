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

type ReviewHandler struct {
	reviewUC domain.ReviewUsecase
	validate *validator.Validate
}

func NewReviewHandler(public *gin.RouterGroup, protected *gin.RouterGroup, reviewUC domain.ReviewUsecase, validate *validator.Validate) {
	handler := &ReviewHandler{reviewUC: reviewUC, validate: validate}

	// Reviews about a user are public profile data
	public.GET("/users/:id/reviews", handler.ListForUser)

	reviews := protected.Group("/reviews")
	{
		reviews.POST("", handler.Create)
		reviews.GET("/:id", handler.Get)
		reviews.DELETE("/:id", handler.Delete)
	}
}

// Create godoc
// @Summary      Create a review
// @Description  Rate the other party of a completed, paid project
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        review  body      domain.ReviewInput  true  "Review JSON"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /reviews [post]
// @Security     BearerAuth
func (h *ReviewHandler) Create(c *gin.Context) {
	var in domain.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	reviewerID := c.GetString(string(domain.KeyUserID))
	review, err := h.reviewUC.Create(c, reviewerID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Review created", review)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	review, err := h.reviewUC.Get(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Review details", review)
}

func (h *ReviewHandler) ListForUser(c *gin.Context) {
	userID := c.Param("id")
	reviews, err := h.reviewUC.ListForUser(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User reviews", gin.H{"reviews": reviews})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if err := h.reviewUC.Delete(c, userID, role, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Review deleted", nil)
}
