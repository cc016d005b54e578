package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/middleware"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/sirupsen/logrus"
)

// LoginForm is the login form submission
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"pwd"`
}

// ShowLogin handles GET /login
func ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", pageData{
		Title: "Log in",
		Error: errorMessage(c.Query("error")),
	})
}

// Login handles POST /login - checks credentials and starts a session
func Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, withError(middleware.LoginPath, services.CodeInvalidCredentials))
		return
	}

	authService := services.NewAuthService(config.GetDB())
	customer, err := authService.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if services.IsValidationError(err, services.CodeInvalidCredentials) {
			c.Redirect(http.StatusFound, withError(middleware.LoginPath, services.CodeInvalidCredentials))
			return
		}
		logrus.WithError(err).Error("login failed")
		c.Redirect(http.StatusFound, withError(middleware.LoginPath, services.CodeDatabaseError))
		return
	}

	cfg := config.GetConfig()
	token, err := middleware.IssueSessionToken(cfg, customer.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to sign session token")
		c.Redirect(http.StatusFound, withError(middleware.LoginPath, services.CodeDatabaseError))
		return
	}

	middleware.SetSessionCookie(c, cfg, token)
	c.Redirect(http.StatusFound, "/payment")
}

// Logout handles POST /logout - drops the server-side session and the cookie
func Logout(c *gin.Context) {
	customerID, err := middleware.GetCustomerID(c)
	if err == nil {
		if err := services.GetSessionStore().Destroy(c.Request.Context(), customerID); err != nil {
			logrus.WithError(err).WithField("customer_id", customerID).Warn("failed to destroy session")
		}
	}

	middleware.ClearSessionCookie(c, config.GetConfig())
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
