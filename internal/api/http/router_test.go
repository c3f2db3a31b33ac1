package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/api/http/handlers"
	"github.com/lifeshare/lifeshare-api/internal/auth"
	"github.com/lifeshare/lifeshare-api/internal/config"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/observability"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	"github.com/lifeshare/lifeshare-api/internal/service"
)

const testOrigin = "http://localhost:5173"

type testServer struct {
	t     *testing.T
	app   *fiber.App
	users repository.UserRepository
}

func newTestServer(t *testing.T, tokenMax int) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := persistence.NewMemoryStore()
	require.NoError(t, persistence.EnsureIndexes(context.Background(), store, logger))

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, config.NotificationConfig{}).RegisterHandlers()

	userRepo := repository.NewUserRepository(store)
	authService := service.NewAuthService(config.AuthConfig{TokenSecret: "test-secret", AccessTokenTTLMinutes: 60})
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{UnescapePath: true})
	RegisterMiddlewares(app, MiddlewareConfig{Logger: logger, Metrics: metrics, AllowOrigin: testOrigin})
	RegisterRoutes(app, RouteConfig{
		Health:           handlers.NewHealthHandler("lifeshare-api", "test", store, persistence.NewRedis(config.RedisConfig{}, logger)),
		Tokens:           handlers.NewTokenHandler(authService),
		Users:            handlers.NewUsersHandler(service.NewUserService(userRepo, dispatcher, logger)),
		DonationRequests: handlers.NewDonationRequestsHandler(service.NewDonationService(repository.NewDonationRequestRepository(store), dispatcher, logger)),
		Blogs:            handlers.NewBlogsHandler(service.NewBlogService(repository.NewBlogRepository(store), dispatcher, logger)),
		AuthMiddleware:   auth.NewAuthMiddleware(authService.TokenManager()),
		RoleGate:         auth.NewRoleGate(userRepo, AccessPolicy(), domain.RoleAdmin),
		Metrics:          metrics,
		TokenLimit: limiter.Config{
			Max: tokenMax,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "too many token requests")
			},
		},
	})

	return &testServer{t: t, app: app, users: userRepo}
}

func (s *testServer) do(method, path string, body any, token string) (int, any) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	var out any
	if len(raw) > 0 && json.Unmarshal(raw, &out) != nil {
		out = string(raw)
	}
	return resp.StatusCode, out
}

func (s *testServer) register(name, email string) string {
	s.t.Helper()
	status, body := s.do(stdhttp.MethodPost, "/users", map[string]any{"name": name, "email": email}, "")
	require.Equal(s.t, stdhttp.StatusCreated, status)
	id, ok := asMap(body)["insertedId"].(string)
	require.True(s.t, ok)
	return id
}

func (s *testServer) token(email string) string {
	s.t.Helper()
	status, body := s.do(stdhttp.MethodPost, "/jwt", map[string]any{"email": email, "name": "n"}, "")
	require.Equal(s.t, stdhttp.StatusOK, status)
	return asMap(body)["token"].(string)
}

func (s *testServer) promote(id string, role domain.Role) {
	s.t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(s.t, err)
	_, err = s.users.SetRole(context.Background(), oid, role)
	require.NoError(s.t, err)
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func errorCode(v any) string {
	code, _ := asMap(asMap(v)["error"])["code"].(string)
	return code
}

func TestRegisterDuplicateEmailIsNoop(t *testing.T) {
	s := newTestServer(t, 0)
	s.register("Rahim", "rahim@example.com")

	status, body := s.do(stdhttp.MethodPost, "/users", map[string]any{"name": "Another", "email": "rahim@example.com"}, "")
	assert.Equal(t, stdhttp.StatusOK, status)
	assert.Nil(t, asMap(body)["insertedId"])
	assert.Equal(t, "user already exists", asMap(body)["message"])

	_, list := s.do(stdhttp.MethodGet, "/users", nil, "")
	assert.Len(t, list, 1)
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodPost, "/users", map[string]any{"name": "x", "email": "not-an-email"}, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	assert.Equal(t, "email", asMap(asMap(asMap(body)["error"])["details"])["email"])
}

func TestDonationRequestStatusFlow(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodPost, "/donationRequests", map[string]any{
		"requesterName":  "Karim",
		"requesterEmail": "karim@example.com",
		"recipientName":  "Ayesha",
		"hospitalName":   "Dhaka Medical",
	}, "")
	require.Equal(t, stdhttp.StatusCreated, status)
	id := asMap(body)["insertedId"].(string)

	_, body = s.do(stdhttp.MethodGet, "/donationRequests/"+id, nil, "")
	assert.Equal(t, "pending", asMap(body)["donationStatus"])

	status, body = s.do(stdhttp.MethodPut, "/donationRequests/"+id+"/status", map[string]any{"newStatus": "done"}, "")
	require.Equal(t, stdhttp.StatusOK, status)
	assert.EqualValues(t, 1, asMap(body)["matchedCount"])
	assert.EqualValues(t, 1, asMap(body)["modifiedCount"])

	_, body = s.do(stdhttp.MethodGet, "/donationRequests/"+id, nil, "")
	assert.Equal(t, "done", asMap(body)["donationStatus"])

	_, body = s.do(stdhttp.MethodPut, "/donationRequests/"+id+"/status", map[string]any{"newStatus": "done"}, "")
	assert.EqualValues(t, 1, asMap(body)["matchedCount"])
	assert.EqualValues(t, 0, asMap(body)["modifiedCount"])

	status, body = s.do(stdhttp.MethodPut, "/donationRequests/"+id+"/status", map[string]any{"newStatus": "lost"}, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestDonationRequestListFilters(t *testing.T) {
	s := newTestServer(t, 0)
	for _, email := range []string{"a@example.com", "a@example.com", "b@example.com"} {
		status, _ := s.do(stdhttp.MethodPost, "/donationRequests", map[string]any{"requesterEmail": email, "recipientName": "r"}, "")
		require.Equal(t, stdhttp.StatusCreated, status)
	}

	_, body := s.do(stdhttp.MethodGet, "/donationRequests?userEmail=a@example.com", nil, "")
	assert.Len(t, body, 2)

	_, body = s.do(stdhttp.MethodGet, "/donationRequests?userEmail=a@example.com&status=done", nil, "")
	assert.Len(t, body, 0)

	status, _ := s.do(stdhttp.MethodGet, "/donationRequests?status=bogus", nil, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodGet, "/donationRequests/not-an-id", nil, "")
	assert.Equal(t, stdhttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
	assert.Equal(t, "invalid id", asMap(asMap(asMap(body)["error"])["details"])["id"])
}

func TestDeleteMissingIDDeletesNothing(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodDelete, "/donationRequests/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, stdhttp.StatusOK, status)
	assert.EqualValues(t, 0, asMap(body)["deletedCount"])
}

func TestBlogCreateIsDraftAndPublishNeedsAdmin(t *testing.T) {
	s := newTestServer(t, 0)
	adminID := s.register("Admin", "admin@example.com")
	s.promote(adminID, domain.RoleAdmin)
	s.register("Writer", "writer@example.com")
	writer := s.token("writer@example.com")
	admin := s.token("admin@example.com")

	status, body := s.do(stdhttp.MethodPost, "/blogs", map[string]any{
		"title":   "Why donate",
		"content": "Every drop counts",
		"status":  "published",
	}, writer)
	require.Equal(t, stdhttp.StatusCreated, status)
	id := asMap(body)["insertedId"].(string)

	_, body = s.do(stdhttp.MethodGet, "/blogs/"+id, nil, "")
	assert.Equal(t, "draft", asMap(body)["status"])

	status, body = s.do(stdhttp.MethodPut, "/blogs/"+id+"/publish", nil, writer)
	assert.Equal(t, stdhttp.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = s.do(stdhttp.MethodPut, "/blogs/"+id+"/publish", nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.EqualValues(t, 1, asMap(body)["modifiedCount"])

	_, body = s.do(stdhttp.MethodGet, "/blogs?status=published", nil, "")
	assert.Len(t, body, 1)

	status, body = s.do(stdhttp.MethodDelete, "/blogs/"+id, nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.EqualValues(t, 1, asMap(body)["deletedCount"])
}

func TestUnauthenticatedRequestsChangeNothing(t *testing.T) {
	s := newTestServer(t, 0)
	id := s.register("Rahim", "rahim@example.com")

	status, body := s.do(stdhttp.MethodPost, "/blogs", map[string]any{"title": "t", "content": "c"}, "")
	assert.Equal(t, stdhttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
	_, blogs := s.do(stdhttp.MethodGet, "/blogs", nil, "")
	assert.Len(t, blogs, 0)

	status, _ = s.do(stdhttp.MethodDelete, "/users/"+id, nil, "")
	assert.Equal(t, stdhttp.StatusUnauthorized, status)

	status, body = s.do(stdhttp.MethodDelete, "/users/"+id, nil, "garbage")
	assert.Equal(t, stdhttp.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", errorCode(body))

	_, users := s.do(stdhttp.MethodGet, "/users", nil, "")
	assert.Len(t, users, 1)
}

func TestAdminPromotesVolunteer(t *testing.T) {
	s := newTestServer(t, 0)
	adminID := s.register("Admin", "admin@example.com")
	s.promote(adminID, domain.RoleAdmin)
	donorID := s.register("Donor", "donor@example.com")
	admin := s.token("admin@example.com")
	donor := s.token("donor@example.com")

	status, _ := s.do(stdhttp.MethodPatch, "/users/volunteer/"+donorID, nil, donor)
	assert.Equal(t, stdhttp.StatusForbidden, status)

	status, body := s.do(stdhttp.MethodPatch, "/users/volunteer/"+donorID, nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, "volunteer", asMap(body)["role"])
	assert.EqualValues(t, 1, asMap(body)["modifiedCount"])

	status, body = s.do(stdhttp.MethodGet, "/users/volunteer/donor@example.com", nil, donor)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, true, asMap(body)["volunteer"])

	status, _ = s.do(stdhttp.MethodGet, "/users/volunteer/donor@example.com", nil, admin)
	assert.Equal(t, stdhttp.StatusForbidden, status)

	_, body = s.do(stdhttp.MethodGet, "/users/admin/admin@example.com", nil, admin)
	assert.Equal(t, true, asMap(body)["admin"])
}

func TestBlockAndUnblock(t *testing.T) {
	s := newTestServer(t, 0)
	adminID := s.register("Admin", "admin@example.com")
	s.promote(adminID, domain.RoleAdmin)
	donorID := s.register("Donor", "donor@example.com")
	admin := s.token("admin@example.com")

	status, _ := s.do(stdhttp.MethodPatch, "/users/admin/block/"+donorID, nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	_, body := s.do(stdhttp.MethodGet, "/users?status=blocked", nil, "")
	assert.Len(t, body, 1)

	status, _ = s.do(stdhttp.MethodPatch, "/users/admin/unblock/"+donorID, nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	_, body = s.do(stdhttp.MethodGet, "/users?status=blocked", nil, "")
	assert.Len(t, body, 0)
}

func TestProfileUpdateOnlyTouchesOwnDocument(t *testing.T) {
	s := newTestServer(t, 0)
	aID := s.register("A", "a@example.com")
	bID := s.register("B", "b@example.com")
	a := s.token("a@example.com")

	status, body := s.do(stdhttp.MethodPatch, "/users/"+bID, map[string]any{"district": "Sylhet"}, a)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.EqualValues(t, 0, asMap(body)["matchedCount"])

	_, body = s.do(stdhttp.MethodPatch, "/users/"+aID, map[string]any{"district": "Sylhet"}, a)
	assert.EqualValues(t, 1, asMap(body)["modifiedCount"])

	_, body = s.do(stdhttp.MethodGet, "/users/a@example.com", nil, a)
	assert.Equal(t, "Sylhet", asMap(body)["district"])
}

func TestTokenIssue(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodPost, "/jwt", map[string]any{"name": "no email"}, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	token := s.token("someone@example.com")
	assert.NotEmpty(t, token)
}

func TestTokenIssueIsRateLimited(t *testing.T) {
	s := newTestServer(t, 2)
	s.token("a@example.com")
	s.token("a@example.com")

	status, body := s.do(stdhttp.MethodPost, "/jwt", map[string]any{"email": "a@example.com"}, "")
	assert.Equal(t, stdhttp.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", errorCode(body))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodGet, "/", nil, "")
	assert.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, "LifeShare is here", body)

	status, body = s.do(stdhttp.MethodGet, "/health/ready", nil, "")
	require.Equal(t, stdhttp.StatusOK, status)
	deps := asMap(asMap(body)["dependencies"])
	assert.Equal(t, "ok", deps["mongodb"])
	assert.Equal(t, "disabled", deps["redis"])

	status, body = s.do(stdhttp.MethodGet, "/metrics", nil, "")
	require.Equal(t, stdhttp.StatusOK, status)
	text, _ := body.(string)
	assert.True(t, strings.Contains(text, "lifeshare_http_requests_total"))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, stdhttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(stdhttp.MethodOptions, "/blogs", nil)
	req.Header.Set(fiber.HeaderOrigin, testOrigin)
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, stdhttp.MethodPost)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, testOrigin, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestAccessPolicyCoversGatedRoutes(t *testing.T) {
	policy := AccessPolicy()
	assert.Equal(t, domain.RoleNone, policy[auth.Route{Method: fiber.MethodPost, Path: "/blogs"}])
	assert.Equal(t, domain.RoleAdmin, policy[auth.Route{Method: fiber.MethodDelete, Path: "/users/:id"}])

	policy[auth.Route{Method: fiber.MethodPost, Path: "/blogs"}] = domain.RoleAdmin
	assert.Equal(t, domain.RoleNone, AccessPolicy()[auth.Route{Method: fiber.MethodPost, Path: "/blogs"}])
}

func TestRegisterDuplicateIgnoresOtherFields(t *testing.T) {
	s := newTestServer(t, 0)
	s.register("Rahim", "rahim@example.com")

	for _, body := range []map[string]any{
		{"email": "rahim@example.com"},
		{"name": "X", "email": "rahim@example.com", "bloodGroup": "o+"},
		{"email": "Rahim@Example.com"},
	} {
		status, resp := s.do(stdhttp.MethodPost, "/users", body, "")
		assert.Equal(t, stdhttp.StatusOK, status, body)
		assert.Nil(t, asMap(resp)["insertedId"])
		assert.Equal(t, "user already exists", asMap(resp)["message"])
	}

	_, list := s.do(stdhttp.MethodGet, "/users", nil, "")
	assert.Len(t, list, 1)
}

func TestRegisterNewAccountChecksFields(t *testing.T) {
	s := newTestServer(t, 0)

	status, body := s.do(stdhttp.MethodPost, "/users", map[string]any{"email": "new@example.com"}, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
	assert.Equal(t, "required", asMap(asMap(asMap(body)["error"])["details"])["name"])

	status, body = s.do(stdhttp.MethodPost, "/users", map[string]any{"name": "N", "email": "new@example.com", "bloodGroup": "o+"}, "")
	assert.Equal(t, stdhttp.StatusBadRequest, status)
	assert.Equal(t, "oneof", asMap(asMap(asMap(body)["error"])["details"])["bloodGroup"])

	_, list := s.do(stdhttp.MethodGet, "/users", nil, "")
	assert.Len(t, list, 0)
}

func TestSparseCreatesAlwaysInsert(t *testing.T) {
	s := newTestServer(t, 0)
	s.register("Writer", "writer@example.com")
	writer := s.token("writer@example.com")

	status, body := s.do(stdhttp.MethodPost, "/donationRequests", map[string]any{"requesterName": "A", "donationStatus": "pending"}, "")
	require.Equal(t, stdhttp.StatusCreated, status)
	assert.NotEmpty(t, asMap(body)["insertedId"])

	status, body = s.do(stdhttp.MethodPost, "/blogs", map[string]any{"title": "t"}, writer)
	require.Equal(t, stdhttp.StatusCreated, status)
	id := asMap(body)["insertedId"].(string)

	_, body = s.do(stdhttp.MethodGet, "/blogs/"+id, nil, "")
	assert.Equal(t, "draft", asMap(body)["status"])
	assert.Equal(t, "", asMap(body)["content"])
}

func TestRoleChecksIgnoreEmailCase(t *testing.T) {
	s := newTestServer(t, 0)
	adminID := s.register("Admin", "Admin@Example.com")
	s.promote(adminID, domain.RoleAdmin)
	admin := s.token("admin@example.com")

	status, body := s.do(stdhttp.MethodGet, "/users/admin/ADMIN@example.com", nil, admin)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, true, asMap(body)["admin"])

	status, _ = s.do(stdhttp.MethodDelete, "/users/"+primitive.NewObjectID().Hex(), nil, admin)
	assert.Equal(t, stdhttp.StatusOK, status)
}
