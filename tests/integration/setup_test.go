package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"collector/internal/config"
	"collector/internal/handlers"
	"collector/internal/logger"
	"collector/internal/middleware"
	"collector/internal/services"
	"collector/internal/store"
	"collector/internal/validator"
)

const (
	testPassword = "integration-password"
	testAPIToken = "integration-api-token"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  *store.Store
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by a CSV file in a
// throwaway temp directory, mirroring the production route wiring.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		AppPassword: testPassword,
		APIToken:    testAPIToken,
		RateLimit:   1000,
	}

	noteStore := store.New(filepath.Join(t.TempDir(), "notes.csv"))
	noteService := services.NewNoteService(noteStore)

	authHandler := handlers.NewAuthHandler(cfg)
	noteHandler := handlers.NewNoteHandler(noteService)

	limiter := middleware.NewSlidingWindowLimiter(cfg.RateLimit, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	sessionAuth := middleware.SessionAuth()
	readAuth := middleware.SessionOrBearer(cfg.APIToken)
	bearerAuth := middleware.BearerAuth(cfg.APIToken)
	limited := middleware.RateLimit(limiter)

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.POST("/login", authHandler.Login)
	api.GET("/logout", sessionAuth, authHandler.Logout)
	api.GET("/notes", readAuth, noteHandler.ListNotes)
	api.GET("/notes.csv", readAuth, noteHandler.ExportNotes)
	api.POST("/notes", sessionAuth, limited, noteHandler.CreateNote)
	api.PUT("/notes/:id", sessionAuth, limited, noteHandler.UpdateNote)
	api.DELETE("/notes/:id", sessionAuth, limited, noteHandler.DeleteNote)
	api.POST("/import", sessionAuth, limited, noteHandler.ImportNotes)
	api.PATCH("/notes/:id/estimate", bearerAuth, noteHandler.UpdateEstimate)

	return &testApp{Store: noteStore, Router: router}
}

// request makes a JSON request, optionally with a session cookie or a
// bearer token, and returns the recorder.
func (app *testApp) request(method, path, body, session, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// login exchanges the test password for a session cookie value.
func (app *testApp) login(t *testing.T) string {
	t.Helper()

	rec := app.request(http.MethodPost, "/api/login", `{"password":"`+testPassword+`"}`, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("login response carried no session cookie")
	return ""
}

// importCSV uploads a CSV payload through the multipart import endpoint.
func (app *testApp) importCSV(t *testing.T, session, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "notes.csv")
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session})
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
