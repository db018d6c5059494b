package router

import (
	"github.com/cuongbtq/labour-market/internal/api/handler"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/upload"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())
	if deps.Redis != nil && deps.RateLimitPerSec > 0 {
		r.Use(RateLimitMiddleware(deps.Redis, deps.RateLimitPerSec, deps.Logger))
	}

	health := handler.NewHealthHandler(deps)
	r.GET("/health", health.Health)

	if deps.Uploads != nil {
		r.Static(upload.PublicPrefix, deps.Uploads.Root)
	}

	authHandler := handler.NewAuthHandler(deps)
	userHandler := handler.NewUserHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	paymentHandler := handler.NewPaymentHandler(deps)
	disputeHandler := handler.NewDisputeHandler(deps)

	clientOnly := RequireRole(domain.RoleClient)
	labourOnly := RequireRole(domain.RoleLaborer)

	// Transitions are not role-gated here: the lifecycle rules answer with
	// the precise precondition that failed.
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register/client", authHandler.RegisterClient)
			auth.POST("/register/labour", authHandler.RegisterLabour)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("")
		protected.Use(AuthMiddleware(deps.Tokens))

		users := protected.Group("/users")
		{
			users.GET("/me", userHandler.Me)
			users.PATCH("/me/photo", userHandler.UpdatePhoto)
			users.GET("/:userId/ratings", userHandler.Ratings)
		}

		jobs := protected.Group("/jobs")
		{
			jobs.POST("/create", clientOnly, jobHandler.CreateJob)
			jobs.GET("", labourOnly, jobHandler.Feed)

			jobs.GET("/my-posted", clientOnly, jobHandler.MyPosted)
			jobs.GET("/my-accepted", labourOnly, jobHandler.MyAccepted)
			jobs.GET("/my-completed", labourOnly, jobHandler.MyCompleted)

			jobs.GET("/dashboard/client", clientOnly, jobHandler.ClientDashboard)
			jobs.GET("/dashboard/labour", labourOnly, jobHandler.LabourDashboard)
			jobs.GET("/labour-stats/:labourId", jobHandler.LabourStats)
			jobs.GET("/client-stats/:clientId", jobHandler.ClientStats)

			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PATCH("/:id/accept", jobHandler.AcceptJob)
			jobs.PATCH("/:id/reject", jobHandler.RejectJob)
			jobs.PATCH("/:id/complete", jobHandler.CompleteJob)
			jobs.PATCH("/:id/cancel", jobHandler.CancelJob)
			jobs.PATCH("/:id/rate", jobHandler.RateJob)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.PATCH("/:id/proof", paymentHandler.SubmitProof)
			payments.PATCH("/:id/confirm", paymentHandler.ConfirmPayment)
			payments.PATCH("/:id/dispute", paymentHandler.DisputePayment)
		}

		disputes := protected.Group("/disputes")
		{
			disputes.POST("", disputeHandler.RaiseDispute)
			disputes.GET("/my", disputeHandler.MyDisputes)
			disputes.PATCH("/:id/resolve", RequireRole(domain.RoleAdmin), disputeHandler.ResolveDispute)
		}
	}

	return r
}
