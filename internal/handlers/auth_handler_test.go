package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mailauth/internal/handlers"
	"mailauth/internal/routes"
	"mailauth/internal/services"
)

type fakeAccountService struct {
	signupErr  error
	verifyErr  error
	loginErr   error
	requestErr error
	resetErr   error
	pageErr    error
}

func (f *fakeAccountService) Signup(ctx context.Context, username, email, password string) error {
	return f.signupErr
}
func (f *fakeAccountService) VerifyEmail(ctx context.Context, token string) error {
	return f.verifyErr
}
func (f *fakeAccountService) Login(ctx context.Context, username, password string) error {
	return f.loginErr
}
func (f *fakeAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	return f.requestErr
}
func (f *fakeAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.resetErr
}
func (f *fakeAccountService) ValidateResetToken(token string) error {
	return f.pageErr
}

func newRouter(svc services.AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return routes.SetupRoutes(r, handlers.NewAuthHandler(svc))
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"success", nil, http.StatusOK, "check your email"},
		{"unreachable domain", services.ErrEmailUnreachable, http.StatusBadRequest, "cannot receive emails"},
		{"duplicate", services.ErrAccountExists, http.StatusBadRequest, "already exists"},
		{"mail failure", services.ErrMailDelivery, http.StatusBadRequest, "Signup failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeAccountService{signupErr: tt.err})
			w := doJSON(r, http.MethodPost, "/api/auth/signup",
				`{"username":"alice","email":"a@x.com","password":"pw1"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSignupMissingFields(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodPost, "/api/auth/signup", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEmailStatuses(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodGet, "/api/auth/verify-email?token=tok", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "verification successful")

	r = newRouter(&fakeAccountService{verifyErr: services.ErrInvalidToken})
	w = doJSON(r, http.MethodGet, "/api/auth/verify-email?token=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestLoginStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"success", nil, http.StatusOK, "Login successful"},
		{"no account", services.ErrAccountNotFound, http.StatusBadRequest, "does not exist"},
		{"unverified", services.ErrNotVerified, http.StatusBadRequest, "not verified"},
		{"wrong password", services.ErrWrongPassword, http.StatusBadRequest, "incorrect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeAccountService{loginErr: tt.err})
			w := doJSON(r, http.MethodPost, "/api/auth/login",
				`{"username":"alice","password":"pw1"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestResetPasswordRequestStatuses(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodPost, "/api/auth/reset-password", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	r = newRouter(&fakeAccountService{requestErr: services.ErrMailDelivery})
	w = doJSON(r, http.MethodPost, "/api/auth/reset-password", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPage(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodGet, "/api/auth/reset-page?token=tok", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `action="/api/auth/reset"`)

	r = newRouter(&fakeAccountService{pageErr: services.ErrInvalidToken})
	w = doJSON(r, http.MethodGet, "/api/auth/reset-page?token=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordStatuses(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodPost, "/api/auth/reset", `{"token":"tok","password":"pw2"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reset successful")

	r = newRouter(&fakeAccountService{resetErr: services.ErrInvalidToken})
	w = doJSON(r, http.MethodPost, "/api/auth/reset", `{"token":"bad","password":"pw2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestHealthz(t *testing.T) {
	r := newRouter(&fakeAccountService{})
	w := doJSON(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
