package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpcontext "github.com/dtroode/pinmap-server/internal/api/http/context"
	"github.com/dtroode/pinmap-server/internal/password"
	"github.com/dtroode/pinmap-server/internal/service"
	"github.com/dtroode/pinmap-server/internal/testutil"
	"github.com/dtroode/pinmap-server/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t       *testing.T
	engine  *gin.Engine
	storage *testutil.MemoryStorage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	users := testutil.NewMemoryUserStore()
	pins := testutil.NewMemoryPinStore(users)
	storage := testutil.NewMemoryStorage()

	authService := service.NewAuth(users, password.NewBcrypt(bcrypt.MinCost), token.NewJWT("test-secret", time.Hour), lg)
	imageService := service.NewImage(storage, 5<<20, []string{"jpeg", "jpg", "png", "gif", "webp"}, "/uploads", lg)
	pinService := service.NewPin(pins, testutil.NewMemoryPinCache(), imageService, lg)

	r := New(authService, pinService, imageService, httpcontext.NewManager(), "maps-key", "/uploads", lg)
	return &testApp{t: t, engine: r.Register(), storage: storage}
}

func (a *testApp) do(method, target, token string, body io.Reader, contentType string) (int, map[string]any, []byte) {
	a.t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out, rec.Body.Bytes()
}

func (a *testApp) json(method, target, token string, payload any) (int, map[string]any) {
	a.t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(data)
	}
	code, out, _ := a.do(method, target, token, body, "application/json")
	return code, out
}

func (a *testApp) register(email, pass string) string {
	a.t.Helper()

	code, body := a.json(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": pass})
	require.Equal(a.t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func (a *testApp) upload(token, filename, contentType string, data []byte) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(a.t, err)
	_, err = part.Write(data)
	require.NoError(a.t, err)
	require.NoError(a.t, w.Close())

	code, out, _ := a.do(http.MethodPost, "/api/pins/upload", token, &buf, w.FormDataContentType())
	return code, out
}

func findPin(pins []any, id string) map[string]any {
	for _, p := range pins {
		pin := p.(map[string]any)
		if pin["id"] == id {
			return pin
		}
	}
	return nil
}

func TestRouter_EndToEnd(t *testing.T) {
	app := newTestApp(t)

	app.register("Traveller@Example.com", "secret1")

	code, login := app.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "traveller@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	tok := login["token"].(string)
	require.NotEmpty(t, tok)

	code, uploaded := app.upload(tok, "great wall.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusOK, code, uploaded)
	imageURL := uploaded["imageUrl"].(string)
	require.Len(t, app.storage.Keys(), 1)

	code, created := app.json(http.MethodPost, "/api/pins", tok, map[string]any{
		"title": "Great Wall", "description": "Badaling section",
		"latitude": 39.9, "longitude": 116.4, "imageUrl": imageURL,
	})
	require.Equal(t, http.StatusCreated, code, created)
	pin := created["pin"].(map[string]any)
	pinID := pin["id"].(string)
	createdAt := pin["createdAt"]

	code, listed := app.json(http.MethodGet, "/api/pins", "", nil)
	require.Equal(t, http.StatusOK, code)
	got := findPin(listed["pins"].([]any), pinID)
	require.NotNil(t, got)
	assert.Equal(t, "traveller@example.com", got["owner"].(map[string]any)["email"])
	assert.Equal(t, 39.9, got["latitude"])
	assert.Equal(t, 116.4, got["longitude"])

	code, _, asset := app.do(http.MethodGet, imageURL, "", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "jpeg-bytes", string(asset))

	code, updated := app.json(http.MethodPut, "/api/pins/"+pinID, tok, map[string]any{"title": "Great Wall of China"})
	require.Equal(t, http.StatusOK, code, updated)

	code, listed = app.json(http.MethodGet, "/api/pins", "", nil)
	require.Equal(t, http.StatusOK, code)
	got = findPin(listed["pins"].([]any), pinID)
	require.NotNil(t, got)
	assert.Equal(t, "Great Wall of China", got["title"])
	assert.Equal(t, "Badaling section", got["description"])
	assert.Equal(t, createdAt, got["createdAt"])

	code, deleted := app.json(http.MethodDelete, "/api/pins/"+pinID, tok, nil)
	require.Equal(t, http.StatusOK, code, deleted)
	assert.Empty(t, app.storage.Keys(), "image asset released with the pin")

	code, listed = app.json(http.MethodGet, "/api/pins", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, findPin(listed["pins"].([]any), pinID))

	code, _ = app.json(http.MethodDelete, "/api/pins/"+pinID, tok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_OwnershipIsEnforced(t *testing.T) {
	app := newTestApp(t)

	ownerToken := app.register("owner@example.com", "secret1")
	otherToken := app.register("other@example.com", "secret1")

	code, created := app.json(http.MethodPost, "/api/pins", ownerToken, map[string]any{
		"title": "Mine", "description": "d", "latitude": 1, "longitude": 2, "imageUrl": "/uploads/pin-x.png",
	})
	require.Equal(t, http.StatusCreated, code)
	pinID := created["pin"].(map[string]any)["id"].(string)

	code, body := app.json(http.MethodPut, "/api/pins/"+pinID, otherToken, map[string]any{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "you can only modify your own pins", body["error"])

	code, _ = app.json(http.MethodDelete, "/api/pins/"+pinID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, fetched := app.json(http.MethodGet, "/api/pins/"+pinID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Mine", fetched["pin"].(map[string]any)["title"])
}

func TestRouter_AuthFailures(t *testing.T) {
	app := newTestApp(t)
	app.register("a@b.c", "secret1")

	code, body := app.json(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "A@B.C", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "already taken")

	code, wrongPass := app.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.c", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code2, unknown := app.json(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@b.c", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code2)
	assert.Equal(t, wrongPass["error"], unknown["error"])

	code, _ = app.json(http.MethodPost, "/api/pins", "", map[string]any{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.json(http.MethodPost, "/api/pins", "not-a-jwt", map[string]any{"title": "t"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.json(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_RegisterValidation(t *testing.T) {
	app := newTestApp(t)

	for _, creds := range []map[string]string{
		{"email": "a@b.c", "password": strings.Repeat("x", 80)},
		{"email": "a@b.c", "password": strings.Repeat("ж", 40)},
		{"email": "not-an-email", "password": "secret1"},
		{"email": "a@b.c", "password": "12345"},
	} {
		code, body := app.json(http.MethodPost, "/api/auth/register", "", creds)
		assert.Equal(t, http.StatusBadRequest, code, body)
	}
}

func TestRouter_Me(t *testing.T) {
	app := newTestApp(t)
	tok := app.register("me@example.com", "secret1")

	code, body := app.json(http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "me@example.com", body["user"].(map[string]any)["email"])
}

func TestRouter_CoordinateValidation(t *testing.T) {
	app := newTestApp(t)
	tok := app.register("a@b.c", "secret1")

	for _, coords := range [][2]float64{{91, 0}, {0, -200}} {
		code, body := app.json(http.MethodPost, "/api/pins", tok, map[string]any{
			"title": "t", "description": "d", "latitude": coords[0], "longitude": coords[1], "imageUrl": "/uploads/x.png",
		})
		assert.Equal(t, http.StatusBadRequest, code, body)
	}
}

func TestRouter_UploadValidation(t *testing.T) {
	app := newTestApp(t)
	tok := app.register("a@b.c", "secret1")

	code, body := app.upload(tok, "big.png", "image/png", make([]byte, 6<<20))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "File size too large. Maximum size is 5MB", body["error"])

	code, _ = app.upload(tok, "notes.txt", "text/plain", []byte("tiny"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.upload("", "photo.png", "image/png", []byte("png"))
	assert.Equal(t, http.StatusUnauthorized, code)

	assert.Empty(t, app.storage.Keys())
}

func TestRouter_SystemRoutes(t *testing.T) {
	app := newTestApp(t)

	code, health := app.json(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", health["status"])
	_, err := time.Parse(time.RFC3339, health["timestamp"].(string))
	assert.NoError(t, err)

	code, key := app.json(http.MethodGet, "/api/config/maps-key", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "maps-key", key["apiKey"])

	code, missing := app.json(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", missing["error"])

	code, _ = app.json(http.MethodGet, "/api/pins/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = app.json(http.MethodGet, "/uploads/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
