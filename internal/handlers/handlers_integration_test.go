package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"blog/internal/handlers"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/services"
	"blog/pkg/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp wires the full Fiber app over an in-memory SQLite database.
// Each test passes a distinct dbName so state never leaks between
// tests.
func setupApp(dbName string) (*fiber.App, *sessions.Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	sessionStore := sessions.NewStore(time.Hour)

	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	authService := services.NewAuthService(userRepo, sessionStore)
	postService := services.NewPostService(postRepo, nil) // nil for RabbitMQ client

	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)
	pageHandler := handlers.NewPageHandler()

	app := fiber.New()

	apiV1 := app.Group("/api/v1", middleware.Session(authService))
	authHandler.RegisterRoutes(apiV1)
	postHandler.RegisterRoutes(apiV1)
	pageHandler.RegisterRoutes(apiV1)

	return app, sessionStore, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func jsonRequest(method, target string, body map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// sessionCookie extracts the session cookie from a login or register
// response.
func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthorizationScenario(t *testing.T) {
	app, store, err := setupApp("authz_scenario")
	assert.NoError(t, err)
	defer store.Close()

	// Register alice: first user, id 1, becomes admin, auto-login.
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1secret",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	aliceCookie := sessionCookie(resp)
	assert.NotNil(t, aliceCookie)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["user"].(map[string]interface{})["id"])

	// Register bob: id 2, not admin.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "bob", "email": "b@x.com", "password": "pw2secret",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	bobCookie := sessionCookie(resp)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["user"].(map[string]interface{})["id"])

	// Duplicate registration: conflict, no second row, route to login.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "whatever",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "username already exists", body["error"])
	assert.Equal(t, "/login", body["redirect"])

	// Alice (admin) creates a post.
	req := jsonRequest(http.MethodPost, "/api/v1/posts/", map[string]string{
		"title": "Hello World", "subtitle": "first", "body": "welcome",
		"img_url": "https://example.com/hello.png",
	})
	req.AddCookie(aliceCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody(t, resp)
	postID := int(body["post"].(map[string]interface{})["id"].(float64))
	assert.Equal(t, float64(1), body["post"].(map[string]interface{})["author_id"])

	// Bob is denied all three privileged operations with 403.
	req = jsonRequest(http.MethodPost, "/api/v1/posts/", map[string]string{
		"title": "Bob Was Here", "subtitle": "nope", "body": "nope",
		"img_url": "https://example.com/bob.png",
	})
	req.AddCookie(bobCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	req.AddCookie(bobCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Anonymous is denied too, and the post is untouched.
	resp, err = app.Test(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Wrong password: 401, no cookie issued, distinct message.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
	body = decodeBody(t, resp)
	assert.Equal(t, "incorrect password", body["error"])

	// Unknown username gets its own message.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "ghost", "password": "pw1secret",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "unknown username", body["error"])

	// Correct credentials: authenticated as id 1 on a fresh session.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice", "password": "pw1secret",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	freshCookie := sessionCookie(resp)
	assert.NotNil(t, freshCookie)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["user"].(map[string]interface{})["id"])

	// The fresh session may edit the post.
	req = jsonRequest(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", postID), map[string]string{
		"title": "Hello Again", "subtitle": "revised", "body": "welcome back",
		"img_url": "https://example.com/hello.png",
	})
	req.AddCookie(freshCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout invalidates the token: the same cookie is anonymous now
	// and the gate rejects it.
	req = jsonRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(freshCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	req.AddCookie(freshCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The original registration session still works for the delete.
	req = jsonRequest(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", postID), nil)
	req.AddCookie(aliceCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", postID), nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	app, store, err := setupApp("comment_flow")
	assert.NoError(t, err)
	defer store.Close()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1secret",
	}), -1)
	assert.NoError(t, err)
	aliceCookie := sessionCookie(resp)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "bob", "email": "b@x.com", "password": "pw2secret",
	}), -1)
	assert.NoError(t, err)
	bobCookie := sessionCookie(resp)

	req := jsonRequest(http.MethodPost, "/api/v1/posts/", map[string]string{
		"title": "Open Thread", "subtitle": "discuss", "body": "have at it",
		"img_url": "https://example.com/thread.png",
	})
	req.AddCookie(aliceCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	postID := int(body["post"].(map[string]interface{})["id"].(float64))

	// Anonymous comments are rejected.
	resp, err = app.Test(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), map[string]string{
		"text": "first!",
	}), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Bob, a regular user, can comment. Bearer fallback works too.
	req = jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", postID), map[string]string{
		"text": "great post",
	})
	req.Header.Set("Authorization", "Bearer "+bobCookie.Value)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", postID), nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
	assert.Len(t, comments, 1)
	assert.Equal(t, "great post", comments[0].Text)
	assert.Equal(t, uint(2), comments[0].AuthorID)

	// Comments on a missing post 404.
	req = jsonRequest(http.MethodPost, "/api/v1/posts/999/comments", map[string]string{"text": "void"})
	req.AddCookie(bobCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDuplicateTitleAndPages(t *testing.T) {
	app, store, err := setupApp("titles_pages")
	assert.NoError(t, err)
	defer store.Close()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw1secret",
	}), -1)
	assert.NoError(t, err)
	aliceCookie := sessionCookie(resp)

	create := func() (*http.Response, error) {
		req := jsonRequest(http.MethodPost, "/api/v1/posts/", map[string]string{
			"title": "Unique Title", "subtitle": "s", "body": "b",
			"img_url": "https://example.com/i.png",
		})
		req.AddCookie(aliceCookie)
		return app.Test(req, -1)
	}

	resp, err = create()
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = create()
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Static pages render without a session.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pages/about", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "about", body["page"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pages/contact", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
