package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"framez/internal/backend/local"
	"framez/internal/config"
	"framez/internal/database"
	"framez/internal/middleware"
	"framez/internal/models"
	"framez/internal/notifications"
	"framez/internal/realtime"
	"framez/internal/repository"
	"framez/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      "server-test-secret",
		Env:            "test",
		StorageDir:     t.TempDir(),
		StorageBaseURL: "http://localhost:8480/storage",
	}
	middleware.InitMiddleware(cfg)

	bus := realtime.NewBus()
	t.Cleanup(bus.Close)
	store := storage.NewDiskStore(cfg.StorageDir, cfg.StorageBaseURL)

	s := &Server{
		config:   cfg,
		db:       db,
		backend:  local.New(db, store, bus, cfg.JWTSecret),
		users:    repository.NewUserRepository(db),
		postRepo: repository.NewPostRepository(db),
		store:    store,
		notifier: bus,
		hub:      notifications.NewHub(),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func signupUser(t *testing.T, app *fiber.App, email, name string) (string, *models.User) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":        email,
		"password":     "secret1",
		"display_name": name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[AuthResponse](t, resp)
	return body.Token, body.User
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func createPostHTTP(t *testing.T, app *fiber.App, token, content string) models.Post {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{"content": content})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[models.Post](t, resp)
}
