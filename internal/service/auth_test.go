package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/pinmap-server/internal/apierror"
	servermocks "github.com/dtroode/pinmap-server/internal/mocks"
	"github.com/dtroode/pinmap-server/internal/model"
	"github.com/dtroode/pinmap-server/internal/password"
	"github.com/dtroode/pinmap-server/internal/testutil"
)

type authDeps struct {
	users  *servermocks.UserStore
	hasher *servermocks.PasswordHasher
	tokens *servermocks.TokenManager
}

func newTestAuth(t *testing.T) (*Auth, authDeps) {
	t.Helper()

	deps := authDeps{
		users:  servermocks.NewUserStore(t),
		hasher: servermocks.NewPasswordHasher(t),
		tokens: servermocks.NewTokenManager(t),
	}
	return NewAuth(deps.users, deps.hasher, deps.tokens, testutil.MakeNoopLogger()), deps
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	a, deps := newTestAuth(t)
	userID := uuid.New()

	deps.users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, model.ErrNotFound)
	deps.hasher.On("Hash", "secret1").Return([]byte("hash"), nil)
	deps.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.c" && string(u.PasswordHash) == "hash" && u.ID != uuid.Nil && !u.CreatedAt.IsZero()
	})).Return(model.User{ID: userID, Email: "a@b.c"}, nil)
	deps.tokens.On("GenerateAccessToken", userID).Return("tok", nil)

	session, err := a.Register(ctx, "  A@B.c ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, userID, session.User.ID)
	assert.Equal(t, "a@b.c", session.User.Email)
}

func TestAuth_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing email", email: "", password: "secret1"},
		{name: "missing password", email: "a@b.c", password: ""},
		{name: "blank email", email: "   ", password: "secret1"},
		{name: "short password", email: "a@b.c", password: "12345"},
		{name: "password over 72 bytes", email: "a@b.c", password: strings.Repeat("x", 80)},
		{name: "multibyte password over 72 bytes", email: "a@b.c", password: strings.Repeat("ж", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAuth(t)

			_, err := a.Register(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, apierror.IsKind(err, apierror.KindValidation))
		})
	}
}

func TestAuth_Register_LongPasswordWithBcrypt(t *testing.T) {
	users := testutil.NewMemoryUserStore()
	a := NewAuth(users, password.NewBcrypt(bcrypt.MinCost), servermocks.NewTokenManager(t), testutil.MakeNoopLogger())

	_, err := a.Register(context.Background(), "a@b.c", strings.Repeat("x", 80))
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.EqualError(t, err, "password must be at most 72 bytes")

	_, err = users.GetByEmail(context.Background(), "a@b.c")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	a, deps := newTestAuth(t)

	deps.users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{ID: uuid.New(), Email: "a@b.c"}, nil)

	_, err := a.Register(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Contains(t, err.Error(), "already taken")
}

func TestAuth_Register_DuplicateOnInsert(t *testing.T) {
	a, deps := newTestAuth(t)

	deps.users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, model.ErrNotFound)
	deps.hasher.On("Hash", "secret1").Return([]byte("hash"), nil)
	deps.users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)

	_, err := a.Register(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestAuth_Register_StoreFailure(t *testing.T) {
	a, deps := newTestAuth(t)
	storeErr := errors.New("connection refused")

	deps.users.On("GetByEmail", mock.Anything, "a@b.c").Return(model.User{}, storeErr)

	_, err := a.Register(context.Background(), "a@b.c", "secret1")
	require.ErrorIs(t, err, storeErr)
	_, isAPI := apierror.As(err)
	assert.False(t, isAPI)
}

func TestAuth_Login_Success(t *testing.T) {
	a, deps := newTestAuth(t)
	user := model.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: []byte("hash")}

	deps.users.On("GetByEmail", mock.Anything, "a@b.c").Return(user, nil)
	deps.hasher.On("Compare", []byte("hash"), "secret1").Return(nil)
	deps.tokens.On("GenerateAccessToken", user.ID).Return("tok", nil)

	session, err := a.Login(context.Background(), "A@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, user.ID, session.User.ID)
}

func TestAuth_Login_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	a, deps := newTestAuth(t)
	user := model.User{ID: uuid.New(), Email: "known@b.c", PasswordHash: []byte("hash")}

	deps.users.On("GetByEmail", mock.Anything, "unknown@b.c").Return(model.User{}, model.ErrNotFound)
	deps.users.On("GetByEmail", mock.Anything, "known@b.c").Return(user, nil)
	deps.hasher.On("Compare", []byte("hash"), "wrong-password").Return(errors.New("mismatch"))

	_, unknownErr := a.Login(context.Background(), "unknown@b.c", "whatever")
	_, wrongErr := a.Login(context.Background(), "known@b.c", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.True(t, apierror.IsKind(unknownErr, apierror.KindAuth))
	assert.True(t, apierror.IsKind(wrongErr, apierror.KindAuth))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuth_GetUserID(t *testing.T) {
	a, deps := newTestAuth(t)
	userID := uuid.New()

	deps.tokens.On("ParseAccessToken", "good").Return(userID, nil)
	deps.tokens.On("ParseAccessToken", "bad").Return(uuid.Nil, errors.New("signature is invalid"))

	got, err := a.GetUserID(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = a.GetUserID(context.Background(), "bad")
	assert.True(t, apierror.IsKind(err, apierror.KindAuth))

	_, err = a.GetUserID(context.Background(), "")
	assert.True(t, apierror.IsKind(err, apierror.KindAuth))
}

func TestAuth_GetUser(t *testing.T) {
	a, deps := newTestAuth(t)
	known := model.User{ID: uuid.New(), Email: "a@b.c"}
	missing := uuid.New()

	deps.users.On("GetByID", mock.Anything, known.ID).Return(known, nil)
	deps.users.On("GetByID", mock.Anything, missing).Return(model.User{}, model.ErrNotFound)

	got, err := a.GetUser(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known, got)

	_, err = a.GetUser(context.Background(), missing)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}
