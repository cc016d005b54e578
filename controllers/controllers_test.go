package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/kendall-kelly/campus-eats-api/templates"
	"github.com/kendall-kelly/campus-eats-api/tests/testutil"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	store *services.SessionStore
	cfg   *config.Config
}

// setupTestEnv installs an in-memory database, session store and config as the globals handlers use
func setupTestEnv(t *testing.T) testEnv {
	db := testutil.NewTestDB(t)
	mr, client := testutil.NewTestRedis(t)
	cfg := testutil.TestConfig()

	originalDB, originalCfg, originalStore := config.GetDB(), config.GetConfig(), services.GetSessionStore()
	t.Cleanup(func() {
		config.SetDB(originalDB)
		config.SetConfig(originalCfg)
		services.SetSessionStore(originalStore)
	})

	store := services.NewSessionStore(client, cfg.SessionTTL)
	config.SetDB(db)
	config.SetConfig(cfg)
	services.SetSessionStore(store)

	return testEnv{db: db, mr: mr, store: store, cfg: cfg}
}

// newTestPaymentController pins the clock so delivery slots stay on the same day
func newTestPaymentController() *PaymentController {
	return NewPaymentController(func() time.Time { return testNow })
}

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tmpl, err := templates.Load()
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)
	return router
}

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
