package v1

import (
	"net/http"
	"time"

	"karya-backend/config"
	"karya-backend/internal/delivery/http/middleware"
	"karya-backend/internal/delivery/http/response"
	"karya-backend/internal/delivery/ws"
	"karya-backend/internal/domain"
	"karya-backend/internal/usecase"
	"karya-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RouterDeps struct {
	JobUC          domain.JobUsecase
	ApplicationUC  domain.ApplicationUsecase
	InterviewUC    domain.InterviewUsecase
	ProjectUC      domain.ProjectUsecase
	PaymentUC      domain.PaymentUsecase
	ReviewUC       domain.ReviewUsecase
	NotificationUC domain.NotificationUsecase
	UserUC         domain.UserUsecase
	HealthUC       usecase.HealthUsecase
	UserRepo       domain.UserRepository
	Hub            *ws.Hub
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware(
		deps.Config.RateLimitGlobalThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))
	r.Use(middleware.ErrorHandler())

	validate := validator.New()
	validation.RegisterValidators(validate)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.UserRepo))
	{
		NewJobHandler(v1, protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC, validate)
		NewInterviewHandler(protected, deps.InterviewUC, validate)
		NewProjectHandler(protected, deps.ProjectUC, validate)
		NewPaymentHandler(v1, protected, deps.PaymentUC, validate)
		NewReviewHandler(v1, protected, deps.ReviewUC, validate)
		NewNotificationHandler(protected, deps.NotificationUC)
		NewUserHandler(v1, protected, deps.UserUC)
		ws.NewHandler(protected, deps.Hub, deps.Config.FrontendURL)
	}

	return r
}
