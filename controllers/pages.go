package controllers

import (
	"net/url"

	"github.com/kendall-kelly/campus-eats-api/services"
)

// pageData is what every page template renders from
type pageData struct {
	Title       string
	Error       string
	Success     string
	ErrorCode   string
	Departments []string
	LeadMinutes int
}

var departments = []string{"CSE", "ECE", "EEE", "IT", "MECH", "CIVIL", "MBA", "MCA"}

// Messages for codes carried in ?error= query strings. Only these fixed strings are ever rendered.
var errorMessages = map[string]string{
	services.CodePasswordMismatch:   "Passwords do not match.",
	services.CodeMissingFields:      "Please fill in every required field.",
	services.CodeFieldTooLong:       "One of the fields is too long.",
	services.CodeInvalidPassword:    "Password must be at most 72 bytes long.",
	services.CodeSelectionRequired:  "Please select gender and role.",
	services.CodeDepartmentRequired: "Please select your department/course!",
	services.CodeInvalidPhone:       "Invalid 10-digit phone number!",
	services.CodeInvalidEmail:       "Invalid email format.",
	services.CodeUsernameTaken:      "Username already taken!",
	services.CodeEmailTaken:         "Email already in use!",
	services.CodePhoneTaken:         "Phone number already in use!",
	services.CodeInvalidCredentials: "Invalid username or password.",
}

func errorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}

func withError(path, code string) string {
	return path + "?" + url.Values{"error": {code}}.Encode()
}
