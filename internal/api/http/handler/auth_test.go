package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpcontext "github.com/dtroode/pinmap-server/internal/api/http/context"
	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/mocks"
	"github.com/dtroode/pinmap-server/internal/model"
	"github.com/dtroode/pinmap-server/internal/testutil"
)

func newAuthEngine(t *testing.T, userID uuid.UUID) (*gin.Engine, *mocks.AuthService) {
	t.Helper()

	svc := mocks.NewAuthService(t)
	cm := httpcontext.NewManager()
	h := NewAuth(svc, cm, testutil.MakeNoopLogger())

	engine := gin.New()
	engine.POST("/register", h.Register)
	engine.POST("/login", h.Login)
	engine.GET("/me", asUser(cm, userID), h.Me)
	return engine, svc
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	engine, svc := newAuthEngine(t, uuid.Nil)
	user := model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: []byte("secret-hash")}
	svc.On("Register", mock.Anything, "a@b.c", "secret1").Return(model.Session{Token: "tok", User: user}, nil)

	rec := doJSON(engine, http.MethodPost, "/register", `{"email":"a@b.c","password":"secret1"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "tok", body["token"])
	userBody := body["user"].(map[string]any)
	assert.Equal(t, user.ID.String(), userBody["id"])
	assert.Equal(t, "a@b.c", userBody["email"])
	assert.NotContains(t, rec.Body.String(), "secret-hash")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuth_Register_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "missing password", body: `{"email":"a@b.c"}`, wantStatus: http.StatusBadRequest, wantError: "email and password are required"},
		{name: "malformed email", body: `{"email":"not-an-email","password":"secret1"}`, wantStatus: http.StatusBadRequest, wantError: "invalid email format"},
		{name: "double at", body: `{"email":"a@b@c","password":"secret1"}`, wantStatus: http.StatusBadRequest, wantError: "invalid email format"},
		{name: "short password", body: `{"email":"a@b.c","password":"12345"}`, wantStatus: http.StatusBadRequest, wantError: "password must be at least 6 characters"},
		{name: "long password", body: `{"email":"a@b.c","password":"` + strings.Repeat("x", 80) + `"}`, wantStatus: http.StatusBadRequest, wantError: "password must be at most 72 characters"},
		{name: "duplicate email", body: `{"email":"a@b.c","password":"secret1"}`, svcErr: apierror.NewErrEmailIsTaken("a@b.c"), wantStatus: http.StatusBadRequest, wantError: "email a@b.c is already taken"},
		{name: "unexpected failure", body: `{"email":"a@b.c","password":"secret1"}`, svcErr: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantError: "internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine, svc := newAuthEngine(t, uuid.Nil)
			if tt.svcErr != nil {
				svc.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(model.Session{}, tt.svcErr)
			}

			rec := doJSON(engine, http.MethodPost, "/register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, rec.Body.String())
		})
	}
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	engine, svc := newAuthEngine(t, uuid.Nil)
	svc.On("Login", mock.Anything, "a@b.c", "nope").Return(model.Session{}, apierror.NewErrInvalidCredentials())

	rec := doJSON(engine, http.MethodPost, "/login", `{"email":"a@b.c","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
}

func TestAuth_Login_MissingFields(t *testing.T) {
	t.Parallel()

	engine, _ := newAuthEngine(t, uuid.Nil)

	rec := doJSON(engine, http.MethodPost, "/login", `{"email":"a@b.c"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"email and password are required"}`, rec.Body.String())
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	engine, svc := newAuthEngine(t, uuid.Nil)
	svc.On("Login", mock.Anything, "a@b.c", "secret1").Return(model.Session{Token: "tok", User: model.User{ID: uuid.New(), Email: "a@b.c"}}, nil)

	rec := doJSON(engine, http.MethodPost, "/login", `{"email":"a@b.c","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", decode(t, rec)["token"])
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	engine, svc := newAuthEngine(t, userID)
	svc.On("GetUser", mock.Anything, userID).Return(model.User{ID: userID, Email: "a@b.c"}, nil)

	rec := doJSON(engine, http.MethodGet, "/me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "a@b.c", user["email"])
}

func TestAuth_Me_Unauthenticated(t *testing.T) {
	t.Parallel()

	engine, _ := newAuthEngine(t, uuid.Nil)

	rec := doJSON(engine, http.MethodGet, "/me", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
