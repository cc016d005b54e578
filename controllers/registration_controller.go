package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/sirupsen/logrus"
)

// ShowRegistration handles GET /register - renders the sign-up form
func ShowRegistration(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", pageData{
		Title:       "Create an account",
		Error:       errorMessage(c.Query("error")),
		Departments: departments,
	})
}

// Register handles POST /register - validates the form and creates the customer
func Register(c *gin.Context) {
	var form services.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, withError("/register", services.CodeMissingFields))
		return
	}

	registrationService := services.NewRegistrationService(config.GetDB())
	if _, err := registrationService.Register(c.Request.Context(), form); err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.Redirect(http.StatusFound, withError("/register", validationErr.Code))
			return
		}

		code := services.CodeDatabaseError
		var dbErr *services.DatabaseError
		if errors.As(err, &dbErr) {
			code = dbErr.Code
		} else {
			logrus.WithError(err).Error("registration failed")
		}
		c.Redirect(http.StatusFound, "/register/fail?"+url.Values{"err": {code}}.Encode())
		return
	}

	c.Redirect(http.StatusFound, "/register/success")
}

// RegistrationSucceeded handles GET /register/success
func RegistrationSucceeded(c *gin.Context) {
	c.HTML(http.StatusOK, "register_success.tmpl", pageData{Title: "Registration complete"})
}

// RegistrationFailed handles GET /register/fail - shows the database error code of a failed insert
func RegistrationFailed(c *gin.Context) {
	c.HTML(http.StatusOK, "register_fail.tmpl", pageData{
		Title:     "Registration failed",
		ErrorCode: c.Query("err"),
	})
}
