package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servicedesk/api"
	"servicedesk/api/health"
	"servicedesk/api/machine"
	"servicedesk/api/organization"
	"servicedesk/api/response"
	"servicedesk/api/ticket"
	"servicedesk/api/user"
	"servicedesk/application"
	"servicedesk/application/behavior"
	"servicedesk/config"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/metrics"
	"servicedesk/infrastructure/persistence/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "servicedesk", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: config.DatabaseMemory},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT"},
			AllowHeaders: []string{"Content-Type", "X-Actor-ID"},
			MaxAge:       600,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "servicedesk"},
	}
}

func newServer(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()

	store := memory.NewStore()
	m := metrics.New(prometheus.NewRegistry(), cfg.Metrics.Namespace)
	med := application.NewMediator(behavior.Options{
		Logger:     zap.NewNop(),
		Recorder:   m,
		UnitOfWork: memory.NewUnitOfWorkFactory(store, shared.NewEventBus()),
	}, application.Repositories{
		Organizations: memory.NewOrganizationRepository(store),
		Machines:      memory.NewMachineRepository(store),
		Tickets:       memory.NewTicketRepository(store),
		Users:         memory.NewUserRepository(store),
	})

	router := api.NewRouter(cfg, api.Controllers{
		Health:       health.NewController(cfg, nil),
		Organization: organization.NewController(med),
		Machine:      machine.NewController(med),
		Ticket:       ticket.NewController(med),
		User:         user.NewController(med),
	}, m.Handler())
	router.SetupRoutes()
	gin.SetMode(gin.TestMode)
	return router.GetEngine()
}

type client struct {
	t      *testing.T
	engine *gin.Engine
	actor  string
	roles  string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.actor != "" {
		req.Header.Set("X-Actor-ID", c.actor)
		req.Header.Set("X-Actor-Roles", c.roles)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func problem(t *testing.T, w *httptest.ResponseRecorder) response.Problem {
	t.Helper()
	assert.Equal(t, response.ProblemContentType, w.Header().Get("Content-Type"))
	var p response.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func activeOrganization(t *testing.T, admin client) string {
	t.Helper()
	w := admin.do(http.MethodPost, "/api/v1/organizations", map[string]string{
		"name": "acme", "contact_email": "ops@acme.example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, w)["id"].(string)

	w = admin.do(http.MethodPost, "/api/v1/organizations/"+id+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ACTIVE", data(t, w)["status"])
	return id
}

func TestTicketFlowOverHTTP(t *testing.T) {
	engine := newServer(t, testConfig())
	admin := client{t: t, engine: engine, actor: "admin-1", roles: "admin"}
	customer := client{t: t, engine: engine, actor: "cust-1", roles: "customer"}

	orgID := activeOrganization(t, admin)

	w := admin.do(http.MethodPost, "/api/v1/machines", map[string]string{
		"organization_id": orgID, "serial_number": "sn-42", "model": "LaserJet",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	machineID := data(t, w)["id"].(string)

	w = customer.do(http.MethodPost, "/api/v1/tickets", map[string]string{
		"organization_id": orgID, "machine_id": machineID, "title": "Paper jam",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	number := data(t, w)["number"].(string)
	assert.True(t, strings.HasPrefix(number, "TICK-"))

	w = customer.do(http.MethodPut, "/api/v1/tickets/"+number+"/status", map[string]string{"status": "CLOSED"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", problem(t, w).Title)

	w = admin.do(http.MethodPut, "/api/v1/tickets/"+number+"/status", map[string]string{"status": "CLOSED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CLOSED", data(t, w)["status"])

	w = admin.do(http.MethodPut, "/api/v1/tickets/"+number+"/status", map[string]string{"status": "OPEN"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	p := problem(t, w)
	assert.Equal(t, "/problems/business-rule-rejected", p.Type)
	assert.NotEmpty(t, p.Detail)

	w = customer.do(http.MethodGet, "/api/v1/tickets/"+number, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CLOSED", data(t, w)["status"])

	w = customer.do(http.MethodGet, "/api/v1/organizations/"+orgID+"/tickets?status=CLOSED", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
}

func TestDuplicateSerialIsConflict(t *testing.T) {
	engine := newServer(t, testConfig())
	admin := client{t: t, engine: engine, actor: "admin-1", roles: "admin"}
	orgID := activeOrganization(t, admin)

	body := map[string]string{"organization_id": orgID, "serial_number": "SN-1"}
	require.Equal(t, http.StatusCreated, admin.do(http.MethodPost, "/api/v1/machines", body).Code)

	w := admin.do(http.MethodPost, "/api/v1/machines", map[string]string{"organization_id": orgID, "serial_number": " sn-1 "})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, problem(t, w).Status)

	w = admin.do(http.MethodGet, "/api/v1/organizations/"+orgID+"/machines", nil)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
}

func TestPendingOrganizationRejectsMachines(t *testing.T) {
	engine := newServer(t, testConfig())
	admin := client{t: t, engine: engine, actor: "admin-1", roles: "admin"}

	w := admin.do(http.MethodPost, "/api/v1/organizations", map[string]string{
		"name": "pending", "contact_email": "ops@pending.example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orgID := data(t, w)["id"].(string)

	w = admin.do(http.MethodPost, "/api/v1/machines", map[string]string{"organization_id": orgID, "serial_number": "SN-9"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidationProblemListsFields(t *testing.T) {
	engine := newServer(t, testConfig())
	admin := client{t: t, engine: engine, actor: "admin-1", roles: "admin"}

	w := admin.do(http.MethodPost, "/api/v1/organizations", map[string]string{"name": "", "contact_email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := problem(t, w)
	assert.Equal(t, "/problems/validation-error", p.Type)
	assert.Contains(t, p.Errors, "name")
	assert.Contains(t, p.Errors, "contact_email")
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	engine := newServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "/problems/bad-request", problem(t, w).Type)
}

func TestUnknownTicketIsNotFound(t *testing.T) {
	engine := newServer(t, testConfig())
	anon := client{t: t, engine: engine}

	w := anon.do(http.MethodGet, "/api/v1/tickets/TICK-2020-00001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), problem(t, w).RequestID)

	w = anon.do(http.MethodGet, "/api/v1/tickets/T-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	engine := newServer(t, testConfig())
	anon := client{t: t, engine: engine}

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, path, nil).Code, path)
	}

	anon.do(http.MethodGet, "/api/v1/users/missing", nil)

	w := anon.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "servicedesk_requests_total")
}

func TestRateLimitReturnsProblem(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 1}
	engine := newServer(t, cfg)
	anon := client{t: t, engine: engine}

	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/health/live", nil).Code)
	w := anon.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, http.StatusTooManyRequests, problem(t, w).Status)
}
