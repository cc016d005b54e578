package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/controllers"
	"github.com/kendall-kelly/campus-eats-api/middleware"
)

// SetupRoutes wires the registration, login and payment pages
func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	SetupRegistrationRoutes(r)
	SetupAuthRoutes(r, cfg)
	SetupPaymentRoutes(r, cfg)
}

// SetupRegistrationRoutes registers the public sign-up pages
func SetupRegistrationRoutes(r *gin.Engine) {
	register := r.Group("/register")
	{
		register.GET("", controllers.ShowRegistration)
		register.POST("", controllers.Register)
		register.GET("/success", controllers.RegistrationSucceeded)
		register.GET("/fail", controllers.RegistrationFailed)
	}
}

// SetupAuthRoutes registers login and logout
func SetupAuthRoutes(r *gin.Engine, cfg *config.Config) {
	r.GET("/login", controllers.ShowLogin)
	r.POST("/login", controllers.Login)
	r.POST("/logout", middleware.RequireSession(cfg), controllers.Logout)
}

// SetupPaymentRoutes registers the session-protected checkout pages
func SetupPaymentRoutes(r *gin.Engine, cfg *config.Config) {
	paymentController := controllers.NewPaymentController(time.Now)

	payment := r.Group("/payment", middleware.RequireSession(cfg))
	{
		payment.GET("", paymentController.ShowPayment)
		payment.POST("/verify", paymentController.VerifyTransaction)
		payment.GET("/verify", paymentController.VerifyTransactionRedirect)
	}
}
