package acceptance

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/middleware"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/kendall-kelly/campus-eats-api/routes"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/kendall-kelly/campus-eats-api/templates"
	"github.com/kendall-kelly/campus-eats-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegistrationAcceptanceTestSuite exercises sign-up and login over a real HTTP listener
type RegistrationAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	db     *gorm.DB
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *RegistrationAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	testutil.MustSetTestEnvironment(suite.T())
	os.Setenv("DATABASE_URL", "sqlite://memory")
	os.Setenv("SESSION_SECRET", "acceptance-session-secret-0123456789")

	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg

	// Redirects are part of what is under test
	suite.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// SetupTest runs before each test
func (suite *RegistrationAcceptanceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	_, client := testutil.NewTestRedis(suite.T())

	config.SetDB(suite.db)
	config.SetConfig(suite.cfg)
	services.SetSessionStore(services.NewSessionStore(client, suite.cfg.SessionTTL))

	tmpl, err := templates.Load()
	suite.Require().NoError(err)

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)
	routes.SetupRoutes(router, suite.cfg)

	suite.server = httptest.NewServer(router)
}

// TearDownTest runs after each test
func (suite *RegistrationAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *RegistrationAcceptanceTestSuite) postForm(path string, form url.Values) *http.Response {
	resp, err := suite.client.PostForm(suite.server.URL+path, form)
	suite.Require().NoError(err)
	resp.Body.Close()
	return resp
}

func (suite *RegistrationAcceptanceTestSuite) getBody(path string) (int, string) {
	resp, err := suite.client.Get(suite.server.URL + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func registrationForm() url.Values {
	return url.Values{
		"username":     {"ravi"},
		"firstname":    {"Ravi"},
		"lastname":     {"Kumar"},
		"gender":       {"M"},
		"email":        {"ravi@campus.edu"},
		"type":         {"STF"},
		"phone_number": {"9876543210"},
		"department":   {"ECE"},
		"pwd":          {"correct horse battery"},
		"cfpwd":        {"correct horse battery"},
	}
}

// TestRegisterThenLogin follows a new customer from sign-up to their first session
func (suite *RegistrationAcceptanceTestSuite) TestRegisterThenLogin() {
	resp := suite.postForm("/register", registrationForm())
	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/register/success", resp.Header.Get("Location"))

	status, body := suite.getBody("/register/success")
	assert.Equal(suite.T(), http.StatusOK, status)
	assert.Contains(suite.T(), body, "Your account has been created.")

	var customer models.Customer
	suite.Require().NoError(suite.db.Where("username = ?", "ravi").First(&customer).Error)
	assert.Equal(suite.T(), models.AccountTypeStaff, customer.Type)
	assert.Equal(suite.T(), "ECE", customer.Department)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("correct horse battery")))

	resp = suite.postForm("/login", url.Values{"username": {"ravi"}, "pwd": {"correct horse battery"}})
	assert.Equal(suite.T(), http.StatusFound, resp.StatusCode)
	assert.Equal(suite.T(), "/payment", resp.Header.Get("Location"))

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			session = cookie
		}
	}
	suite.Require().NotNil(session)

	req, err := http.NewRequest("GET", suite.server.URL+"/payment", nil)
	suite.Require().NoError(err)
	req.AddCookie(session)
	paymentResp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	paymentResp.Body.Close()
	assert.Equal(suite.T(), http.StatusOK, paymentResp.StatusCode)
}

// TestRegistrationErrorsShowOnForm checks the redirect-and-render path for rejected sign-ups
func (suite *RegistrationAcceptanceTestSuite) TestRegistrationErrorsShowOnForm() {
	tests := []struct {
		name    string
		modify  func(v url.Values)
		code    string
		message string
	}{
		{"mismatched passwords", func(v url.Values) { v.Set("cfpwd", "x") }, "PASSWORD_MISMATCH", "Passwords do not match."},
		{"phone with letters", func(v url.Values) { v.Set("phone_number", "12345abcde") }, "INVALID_PHONE", "Invalid 10-digit phone number!"},
		{"staff without department", func(v url.Values) { v.Set("department", "-") }, "DEPARTMENT_REQUIRED", "Please select your department/course!"},
	}

	for _, tt := range tests {
		form := registrationForm()
		tt.modify(form)

		resp := suite.postForm("/register", form)
		assert.Equal(suite.T(), http.StatusFound, resp.StatusCode, tt.name)
		assert.Equal(suite.T(), "/register?error="+tt.code, resp.Header.Get("Location"), tt.name)

		_, body := suite.getBody(resp.Header.Get("Location"))
		assert.Contains(suite.T(), body, tt.message, tt.name)
	}

	var count int64
	suite.db.Model(&models.Customer{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDuplicateRegistration checks each uniqueness rule against an existing account
func (suite *RegistrationAcceptanceTestSuite) TestDuplicateRegistration() {
	resp := suite.postForm("/register", registrationForm())
	suite.Require().Equal("/register/success", resp.Header.Get("Location"))

	sameEmail := registrationForm()
	sameEmail.Set("username", "ravi2")
	sameEmail.Set("phone_number", "9876500000")

	samePhone := registrationForm()
	samePhone.Set("username", "ravi3")
	samePhone.Set("email", "ravi3@campus.edu")

	cases := map[string]url.Values{
		"USERNAME_TAKEN": registrationForm(),
		"EMAIL_TAKEN":    sameEmail,
		"PHONE_TAKEN":    samePhone,
	}
	for code, form := range cases {
		resp = suite.postForm("/register", form)
		assert.Equal(suite.T(), "/register?error="+code, resp.Header.Get("Location"))
	}

	var count int64
	suite.db.Model(&models.Customer{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestRegistrationAcceptanceTestSuite runs the test suite
func TestRegistrationAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(RegistrationAcceptanceTestSuite))
}
