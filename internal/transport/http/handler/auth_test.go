package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auth-api-nosql/internal/config"
	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/infrastructure/session"
	"github.com/auth-api-nosql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Signup(ctx context.Context, req domain.SignupRequest) (*domain.Account, string, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *mockAuthSvc) VerifyEmail(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *mockAuthSvc) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthSvc) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *mockAuthSvc) CheckAuth(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newHandler(svc *mockAuthSvc) *AuthHandler {
	issuer := session.NewIssuer(&config.Config{CookieSameSite: "strict"}, 7*24*time.Hour)
	return NewAuthHandler(svc, issuer)
}

func testAccount() *domain.Account {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:    "acc1",
		Email:        "a@x.com",
		Name:         "Ann",
		PasswordHash: "$2a$10$secretdigest",
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// --- Signup ---

func TestSignup_Created_SetsCookieAndOmitsDigest(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.AnythingOfType("domain.SignupRequest")).
		Return(testAccount(), "signed-jwt", nil)

	body := []byte(`{"email":"a@x.com","password":"Secret1!","name":"Ann"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newHandler(svc).Signup(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.Equal(t, "signed-jwt", c.Value)
	assert.True(t, c.HttpOnly)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.NotNil(t, env.User)
	assert.Equal(t, "acc1", env.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secretdigest")
}

func TestSignup_Conflict_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Signup", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("email already registered: %w", domain.ErrConflict))

	body := []byte(`{"email":"a@x.com","password":"Secret1!","name":"Ann"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newHandler(svc).Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, sessionCookie(t, rec))
}

func TestSignup_BadBody_400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	newHandler(&mockAuthSvc{}).Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- VerifyEmail ---

func TestVerifyEmail_OK(t *testing.T) {
	a := testAccount()
	a.IsVerified = true
	svc := &mockAuthSvc{}
	svc.On("VerifyEmail", mock.Anything, "123456").Return(a, nil)

	body := []byte(`{"code":"123456"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-email", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newHandler(svc).VerifyEmail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.NotNil(t, env.User)
	assert.True(t, env.User.IsVerified)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestVerifyEmail_MissingCode_400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-email", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	newHandler(&mockAuthSvc{}).VerifyEmail(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyEmail_InvalidCode_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyEmail", mock.Anything, "000000").
		Return(nil, fmt.Errorf("invalid or expired verification code: %w", domain.ErrInvalidToken))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-email", bytes.NewReader([]byte(`{"code":"000000"}`)))
	rec := httptest.NewRecorder()

	newHandler(svc).VerifyEmail(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Login / Logout ---

func TestLogin_OK_SetsCookie(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Email: "a@x.com", Password: "Secret1!"}).
		Return(testAccount(), "signed-jwt", nil)

	body := []byte(`{"email":"a@x.com","password":"Secret1!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newHandler(svc).Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.Equal(t, "signed-jwt", c.Value)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogin_BadCredentials_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, "", domain.ErrAuthentication)

	body := []byte(`{"email":"a@x.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	newHandler(svc).Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "invalid credentials", env.Message)
}

func TestLogout_ClearsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	newHandler(&mockAuthSvc{}).Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

// --- ForgotPassword / ResetPassword ---

func TestForgotPassword_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ForgotPassword", mock.Anything, "a@x.com").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader([]byte(`{"email":"a@x.com"}`)))
	rec := httptest.NewRecorder()

	newHandler(svc).ForgotPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPassword_Unknown_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ForgotPassword", mock.Anything, "ghost@x.com").
		Return(fmt.Errorf("account not found: %w", domain.ErrNotFound))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader([]byte(`{"email":"ghost@x.com"}`)))
	rec := httptest.NewRecorder()

	newHandler(svc).ForgotPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPassword_TokenFromURL(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, "deadbeefcafe", "NewSecret2!").Return(nil)

	r := chi.NewRouter()
	r.Post("/api/auth/reset-password/{token}", newHandler(svc).ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/deadbeefcafe", bytes.NewReader([]byte(`{"password":"NewSecret2!"}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestResetPassword_InvalidToken_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, "bogus", "NewSecret2!").
		Return(fmt.Errorf("invalid or expired reset token: %w", domain.ErrInvalidToken))

	r := chi.NewRouter()
	r.Post("/api/auth/reset-password/{token}", newHandler(svc).ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/bogus", bytes.NewReader([]byte(`{"password":"NewSecret2!"}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- CheckAuth ---

func TestCheckAuth_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("CheckAuth", mock.Anything, "acc1").Return(testAccount(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	ctx := context.WithValue(req.Context(), middleware.AccountIDKey, "acc1")
	rec := httptest.NewRecorder()

	newHandler(svc).CheckAuth(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.User)
	assert.Equal(t, "acc1", env.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCheckAuth_NoContext_401(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	rec := httptest.NewRecorder()

	newHandler(&mockAuthSvc{}).CheckAuth(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckAuth_AccountGone_400(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("CheckAuth", mock.Anything, "acc1").
		Return(nil, fmt.Errorf("account not found: %w", domain.ErrNotFound))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	ctx := context.WithValue(req.Context(), middleware.AccountIDKey, "acc1")
	rec := httptest.NewRecorder()

	newHandler(svc).CheckAuth(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
