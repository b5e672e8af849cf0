package v1

import (
	"net/http"
	"strconv"

	"karya-backend/internal/delivery/http/middleware"
	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
	"karya-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentUC domain.PaymentUsecase
	validate  *validator.Validate
}

// NewPaymentHandler registers payment routes. The wallet callback is public:
// the provider redirects the paying user's browser there without our auth.
func NewPaymentHandler(public *gin.RouterGroup, protected *gin.RouterGroup, paymentUC domain.PaymentUsecase, validate *validator.Validate) {
	handler := &PaymentHandler{paymentUC: paymentUC, validate: validate}

	public.GET("/payments/khalti/callback", handler.WalletCallback)

	payments := protected.Group("/payments")
	payments.Use(middleware.RateLimitMiddleware(middleware.PaymentRateLimitConfig()))
	{
		payments.POST("/stripe/intent", handler.CreateCardIntent)
		payments.POST("/stripe/confirm", handler.ConfirmCardPayment)
		payments.POST("/khalti/initiate", handler.InitiateWallet)
		payments.GET("/sent", handler.ListSent)
		payments.GET("/received", handler.ListReceived)
	}
}

// CreateCardIntent godoc
// @Summary      Create a card payment intent
// @Description  Open a card payment for a project (Hirer only)
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      domain.CardIntentInput  true  "Payment JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /payments/stripe/intent [post]
// @Security     BearerAuth
func (h *PaymentHandler) CreateCardIntent(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}

	var in domain.CardIntentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	result, err := h.paymentUC.CreateCardIntent(c, hirerID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Payment intent created", result)
}

type ConfirmCardRequest struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
	ProjectID int64 `json:"project_id" binding:"required"`
}

func (h *PaymentHandler) ConfirmCardPayment(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}

	var req ConfirmCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	if err := h.paymentUC.ConfirmCardPayment(c, hirerID, req.PaymentID, req.ProjectID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Payment completed", nil)
}

func (h *PaymentHandler) InitiateWallet(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}

	var in domain.WalletPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
		return
	}

	hirerID := c.GetString(string(domain.KeyUserID))
	result, err := h.paymentUC.InitiateWallet(c, hirerID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Wallet payment initiated", result)
}

// WalletCallback handles the provider redirect after the user pays or
// abandons the wallet flow. The outcome is verified server-side; the user
// is then redirected to the frontend result page.
func (h *PaymentHandler) WalletCallback(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Query("payment_id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid payment_id"))
		return
	}
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid project_id"))
		return
	}

	result, err := h.paymentUC.HandleWalletCallback(c, domain.WalletCallbackInput{
		Pidx:          c.Query("pidx"),
		TransactionID: c.Query("transaction_id"),
		PaymentID:     paymentID,
		ProjectID:     projectID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

func (h *PaymentHandler) ListSent(c *gin.Context) {
	if err := requireHirer(c); err != nil {
		c.Error(err)
		return
	}
	hirerID := c.GetString(string(domain.KeyUserID))
	payments, err := h.paymentUC.ListSent(c, hirerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sent payments", gin.H{"payments": payments})
}

func (h *PaymentHandler) ListReceived(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	payments, err := h.paymentUC.ListReceived(c, userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Received payments", gin.H{"payments": payments})
}
