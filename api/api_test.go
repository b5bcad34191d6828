package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(models.All()...))

	files, err := services.NewFileStore(t.TempDir())
	require.NoError(t, err)

	router := newRouter(database.New(gormDB), files, withConfig(map[string]string{
		"SESSION_SECRET": "test-secret",
	}))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// apiClient is a cookie-holding helper for driving the API in tests.
type apiClient struct {
	t       *testing.T
	base    string
	httpcli *http.Client
}

func newAPIClient(t *testing.T, server *httptest.Server) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{
		t:       t,
		base:    server.URL,
		httpcli: &http.Client{Jar: jar},
	}
}

func (c *apiClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reqBody)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpcli.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (c *apiClient) register(path, name, email, password string) map[string]any {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, path, map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, "register %s: %v", email, body)
	return body
}

func (c *apiClient) login(email, password string) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode, "login %s: %v", email, body)
}

func TestLoginAndCurrentUser(t *testing.T) {
	server := newTestServer(t)
	cli := newAPIClient(t, server)

	cli.register("/api/clients", "Acme", "acme@example.com", "hunter22")

	t.Run("wrong password rejected", func(t *testing.T) {
		resp, _ := cli.do(http.MethodPost, "/api/login", map[string]any{
			"email":    "acme@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("current_user requires session", func(t *testing.T) {
		resp, _ := cli.do(http.MethodGet, "/api/current_user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	cli.login("acme@example.com", "hunter22")

	resp, body := cli.do(http.MethodGet, "/api/current_user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme", body["name"])
	assert.Equal(t, "client", body["role"])
}

func TestFullContractFlow(t *testing.T) {
	server := newTestServer(t)
	client := newAPIClient(t, server)
	freelancer := newAPIClient(t, server)

	client.register("/api/clients", "Acme", "acme@example.com", "hunter22")
	freelancer.register("/api/freelancers", "Dana", "dana@example.com", "hunter22")

	client.login("acme@example.com", "hunter22")
	freelancer.login("dana@example.com", "hunter22")

	// client posts a task
	resp, task := client.do(http.MethodPost, "/api/tasks", map[string]any{
		"title":     "Build landing page",
		"budgetMin": 200.0,
		"budgetMax": 800.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", task)
	taskID := task["id"].(string)
	assert.Equal(t, "open", task["status"])

	// freelancer bids
	resp, application := freelancer.do(http.MethodPost, "/api/applications", map[string]any{
		"taskId":        taskID,
		"bidAmount":     500.0,
		"estimatedDays": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", application)
	applicationID := application["id"].(string)

	t.Run("freelancer cannot award", func(t *testing.T) {
		resp, _ := freelancer.do(http.MethodPost, "/api/applications/"+applicationID+"/award", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	// client awards the contract
	resp, contract := client.do(http.MethodPost, "/api/applications/"+applicationID+"/award", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", contract)
	contractID := contract["id"].(string)
	assert.Equal(t, "active", contract["status"])
	assert.Equal(t, 500.0, contract["agreedAmount"])

	resp, task = client.do(http.MethodGet, "/api/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", task["status"])

	t.Run("second award conflicts", func(t *testing.T) {
		resp, _ := client.do(http.MethodPost, "/api/applications/"+applicationID+"/award", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	// milestones drive completion
	resp, m1 := client.do(http.MethodPost, "/api/milestones", map[string]any{
		"contractId": contractID,
		"title":      "Design",
		"weight":     0.4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", m1)
	resp, m2 := client.do(http.MethodPost, "/api/milestones", map[string]any{
		"contractId": contractID,
		"title":      "Build",
		"weight":     0.6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", m2)

	resp, _ = freelancer.do(http.MethodPut, "/api/milestones/"+m1["id"].(string), map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = freelancer.do(http.MethodPut, "/api/milestones/"+m2["id"].(string), map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, contract = client.do(http.MethodGet, "/api/contracts/"+contractID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", contract["status"])

	// client reviews the freelancer
	resp, review := client.do(http.MethodPost, "/api/reviews", map[string]any{
		"contractId": contractID,
		"rating":     4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "%v", review)

	resp, profile := client.do(http.MethodGet, "/api/freelancers/"+application["freelancerId"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ratedFreelancer := profile["freelancer"].(map[string]any)
	assert.Equal(t, 4.0, ratedFreelancer["ratings"])

	// cancelling rolls everything back
	resp, _ = client.do(http.MethodDelete, "/api/contracts/"+contractID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, task = client.do(http.MethodGet, "/api/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "open", task["status"])

	resp, application = freelancer.do(http.MethodGet, "/api/applications/"+applicationID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", application["status"])

	resp, profile = client.do(http.MethodGet, "/api/freelancers/"+application["freelancerId"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ratedFreelancer = profile["freelancer"].(map[string]any)
	assert.Nil(t, ratedFreelancer["ratings"])
}

func TestOutsiderCannotTouchContract(t *testing.T) {
	server := newTestServer(t)
	client := newAPIClient(t, server)
	freelancer := newAPIClient(t, server)
	outsider := newAPIClient(t, server)

	client.register("/api/clients", "Acme", "acme@example.com", "hunter22")
	freelancer.register("/api/freelancers", "Dana", "dana@example.com", "hunter22")
	outsider.register("/api/freelancers", "Eve", "eve@example.com", "hunter22")

	client.login("acme@example.com", "hunter22")
	freelancer.login("dana@example.com", "hunter22")
	outsider.login("eve@example.com", "hunter22")

	resp, task := client.do(http.MethodPost, "/api/tasks", map[string]any{
		"title":     "Logo",
		"budgetMin": 50.0,
		"budgetMax": 100.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, application := freelancer.do(http.MethodPost, "/api/applications", map[string]any{
		"taskId":    task["id"],
		"bidAmount": 75.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, contract := client.do(http.MethodPost, "/api/applications/"+application["id"].(string)+"/award", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	contractID := contract["id"].(string)

	resp, _ = outsider.do(http.MethodGet, "/api/contracts/"+contractID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = outsider.do(http.MethodDelete, "/api/contracts/"+contractID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = outsider.do(http.MethodPost, "/api/milestones", map[string]any{
		"contractId": contractID,
		"title":      "Sneaky",
		"weight":     0.1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
