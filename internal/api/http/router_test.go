package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/persistence"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/service"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	users := repository.NewMemoryUserRepository()
	issues := repository.NewMemoryIssueRepository()
	require.NoError(t, persistence.Seed(ctx, users, issues, persistence.SeedOptions{
		DefaultPassword: "password123",
		BcryptCost:      bcrypt.MinCost,
	}, logger))

	sessions := auth.NewMemorySessionStore()
	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "router-test", BcryptCost: bcrypt.MinCost},
		service.AuthDependencies{UserRepo: users, SessionStore: sessions})
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issues,
		UserRepo:   users,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	userService := service.NewUserService(service.UserDependencies{UserRepo: users})
	validator := dto.NewValidator()
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("facility-test", "test", metrics, nil),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Issues:         handlers.NewIssuesHandler(issueService, validator),
		Users:          handlers.NewUsersHandler(userService, validator),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users, sessions),
	})
	return &testServer{app: app, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *nethttp.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	status, env := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

type issueListData struct {
	Issues []struct {
		ID         string `json:"id"`
		Department string `json:"department"`
	} `json:"issues"`
	Stats map[string]int `json:"stats"`
}

type issueData struct {
	Issue struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		Department string `json:"department"`
		Image      string `json:"image"`
		AssignedTo *struct {
			ID string `json:"id"`
		} `json:"assignedTo"`
	} `json:"issue"`
}

func TestHealthLive(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = srv.do(t, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, fiber.MethodGet, "/api/issues", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _ = srv.do(t, fiber.MethodGet, "/api/issues", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "emily.davis@university.edu",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid email or password", env.Error.Message)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName":  "Nora",
		"lastName":   "Quinn",
		"email":      "not-an-email",
		"password":   "123",
		"department": "Astrology",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
	assert.Contains(t, env.Error.Details, "department")

	status, env = srv.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName":  "John",
		"lastName":   "Again",
		"email":      "student@university.edu",
		"password":   "password123",
		"department": "Arts",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestIssueListingIsScoped(t *testing.T) {
	srv := newTestServer(t)

	token := srv.login(t, "tech.admin@university.edu")
	status, env := srv.do(t, fiber.MethodGet, "/api/issues", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", env.Status)

	var list issueListData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Issues, 2)
	for _, issue := range list.Issues {
		assert.Equal(t, "Computer Science", issue.Department)
	}
	assert.Equal(t, 1, list.Stats["pending"])
	assert.Equal(t, 1, list.Stats["in-progress"])

	superToken := srv.login(t, "admin@university.edu")
	status, env = srv.do(t, fiber.MethodGet, "/api/issues?department=Business&status=all", superToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Issues, 1)
	assert.Equal(t, "4", list.Issues[0].ID)
}

func TestCreateIssueJSON(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "student@university.edu")

	status, env := srv.do(t, fiber.MethodPost, "/api/issues", token, map[string]string{
		"title":       "No WiFi",
		"description": "The access point on floor 3 is down",
		"location":    "Floor 3, Library",
		"category":    "wifi",
		"department":  "Arts",
	})
	require.Equal(t, fiber.StatusCreated, status, env)

	var created issueData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Issue.Status)
	assert.Equal(t, "Computer Science", created.Issue.Department)
	require.NotNil(t, created.Issue.AssignedTo)
	assert.Equal(t, "6", created.Issue.AssignedTo.ID)

	status, env = srv.do(t, fiber.MethodPost, "/api/issues", token, map[string]string{"title": "x", "category": "bogus"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "category")
}

func TestCreateIssueMultipartImage(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "sarah.j@university.edu")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"title":       "Broken radiator",
		"description": "Radiator leaks water",
		"location":    "Lab 2",
		"category":    "heating",
		"priority":    "urgent",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("image", "radiator.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/issues", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	status, env := srv.send(t, req)
	require.Equal(t, fiber.StatusCreated, status)

	var created issueData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, strings.HasPrefix(created.Issue.Image, "data:image/png;base64,"))
	require.NotNil(t, created.Issue.AssignedTo)
	assert.Equal(t, "7", created.Issue.AssignedTo.ID)
}

func TestAdminOnlyIssueOperations(t *testing.T) {
	srv := newTestServer(t)
	userToken := srv.login(t, "student@university.edu")
	adminToken := srv.login(t, "tech.admin@university.edu")

	status, env := srv.do(t, fiber.MethodPatch, "/api/issues/5/status", userToken, map[string]string{"status": "resolved"})
	assert.Equal(t, fiber.StatusForbidden, status)
	require.NotNil(t, env.Error)

	status, env = srv.do(t, fiber.MethodPatch, "/api/issues/5/status", adminToken, map[string]string{"status": "resolved"})
	require.Equal(t, fiber.StatusOK, status)
	var updated issueData
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "resolved", updated.Issue.Status)
	assert.Equal(t, "Engineering", updated.Issue.Department)

	status, _ = srv.do(t, fiber.MethodPatch, "/api/issues/5/status", adminToken, map[string]string{"status": "archived"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = srv.do(t, fiber.MethodGet, "/api/issues/stats", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = srv.do(t, fiber.MethodGet, "/api/issues/stats", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestDeleteMissingIssueReturnsNotFound(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "admin@university.edu")

	status, env := srv.do(t, fiber.MethodDelete, "/api/issues/999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = srv.do(t, fiber.MethodDelete, "/api/issues/3", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = srv.do(t, fiber.MethodGet, "/api/issues/3", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	srv := newTestServer(t)
	userToken := srv.login(t, "student@university.edu")
	adminToken := srv.login(t, "admin@university.edu")
	mikeToken := srv.login(t, "mike.chen@university.edu")

	status, _ := srv.do(t, fiber.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := srv.do(t, fiber.MethodGet, "/api/users/search-staff?q=mike", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var found struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found.Users, 1)
	assert.Equal(t, "4", found.Users[0].ID)

	status, _ = srv.do(t, fiber.MethodPatch, "/api/users/4/toggle-status", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = srv.do(t, fiber.MethodGet, "/api/auth/profile", mikeToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "student@university.edu")

	status, _ := srv.do(t, fiber.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = srv.do(t, fiber.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env := srv.do(t, fiber.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "session ended", env.Error.Message)
}

func TestMetricsRecordRequests(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, fiber.MethodGet, "/health/live", "", nil)
	srv.do(t, fiber.MethodGet, "/api/issues", "", nil)

	snap := srv.metrics.Snapshot()
	assert.GreaterOrEqual(t, snap.TotalRequests, int64(2))
	assert.Equal(t, int64(1), snap.Requests["GET /health/live 200"])
	assert.NotEmpty(t, snap.Errors)
}
