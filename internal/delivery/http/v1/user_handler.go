package v1

import (
	"net/http"
	"time"

	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(public *gin.RouterGroup, protected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	// Profiles are public; the badge is part of how users pick who to work with
	public.GET("/users/:id/profile", handler.GetProfile)

	me := protected.Group("/me")
	{
		me.GET("/profile", handler.GetOwnProfile)
		me.POST("/calendar", handler.SaveCalendarCredential)
		me.PATCH("/khalti", handler.SaveKhaltiID)
	}
}

// GetProfile godoc
// @Summary      Get a user profile
// @Description  Returns the user with a freshly recalculated badge and their reviews
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id}/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userUC.GetProfile(c, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User profile", profile)
}

func (h *UserHandler) GetOwnProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	profile, err := h.userUC.GetProfile(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User profile", profile)
}

type CalendarCredentialRequest struct {
	AccessToken  string    `json:"access_token" binding:"required"`
	RefreshToken string    `json:"refresh_token" binding:"required"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// SaveCalendarCredential stores the OAuth token bundle obtained by the
// frontend consent flow so interviews can be booked on the user's calendar.
func (h *UserHandler) SaveCalendarCredential(c *gin.Context) {
	var req CalendarCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tokenType := req.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	userID := c.GetString(string(domain.KeyUserID))
	err := h.userUC.SaveCalendarCredential(c, userID, &oauth2.Token{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    tokenType,
		Expiry:       req.Expiry,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Calendar account connected", nil)
}

type KhaltiIDRequest struct {
	KhaltiID string `json:"khalti_id" binding:"required"`
}

func (h *UserHandler) SaveKhaltiID(c *gin.Context) {
	var req KhaltiIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.userUC.SaveKhaltiID(c, userID, req.KhaltiID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Wallet id saved", nil)
}
