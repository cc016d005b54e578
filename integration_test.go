package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return setupRouter(testutil.TestConfig())
}

// TestHealthEndpointIntegration tests the /health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := setupTestRouter()

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req, _ := http.NewRequest(method, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestPublicPagesRender checks every page that needs no session
func TestPublicPagesRender(t *testing.T) {
	router := setupTestRouter()

	for _, path := range []string{"/register", "/register/success", "/register/fail?err=23505", "/login"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"), path)
	}
}

// TestProtectedPagesRedirectToLogin checks that checkout pages need a session
func TestProtectedPagesRedirectToLogin(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/payment"},
		{"GET", "/payment/verify"},
		{"POST", "/payment/verify"},
		{"POST", "/logout"},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code, tt.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), tt.path)
	}
}

// TestCORSAllowedOrigin tests that configured origins receive CORS headers
func TestCORSAllowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testutil.TestConfig()
	cfg.CORSAllowedOrigins = []string{"https://eats.campus.edu"}
	router := setupRouter(cfg)

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://eats.campus.edu")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://eats.campus.edu", w.Header().Get("Access-Control-Allow-Origin"))
}
