package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/expense-tracker-be/internal/config"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage/memory"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		StorageBackend: config.BackendMemory,
		JWTSecret:      "secret",
		JWTIssuer:      "tests",
		JWTTTL:         time.Hour,
		CORSOrigins:    []string{"*"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

type client struct {
	t     *testing.T
	url   string
	token string
}

func (c client) call(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.url+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func start(t *testing.T, cfg config.Config) client {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, memory.NewStore(), log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return client{t: t, url: ts.URL}
}

func TestSignupTwiceYieldsOneSuccess(t *testing.T) {
	c := start(t, testConfig())
	creds := map[string]string{"username": "alice", "password": "pw"}

	codes := []int{}
	for i := 0; i < 2; i++ {
		code, _ := c.call(http.MethodPost, "/signup", creds)
		codes = append(codes, code)
	}
	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusBadRequest}, codes)
}

func TestLoginThenWhoAmI(t *testing.T) {
	c := start(t, testConfig())
	creds := map[string]string{"username": "alice", "password": "pw"}
	code, _ := c.call(http.MethodPost, "/signup", creds)
	require.Equal(t, http.StatusCreated, code)

	code, _ = c.call(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := c.call(http.MethodPost, "/login", creds)
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "alice", login.Username)

	code, _ = c.call(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	c.token = login.Token
	code, body = c.call(http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"username":"alice"}`, string(body))
}

func TestBarChartMatchesListedAmounts(t *testing.T) {
	c := start(t, testConfig())

	for _, e := range []map[string]any{
		{"username": "a", "amount": 10.25, "date": "2024-03-02"},
		{"username": "b", "amount": 4, "date": "2024-03-01"},
		{"username": "a", "amount": 0.75, "date": "2024-03-02"},
		{"username": "c", "amount": -2, "date": "2024-03-03"},
	} {
		code, _ := c.call(http.MethodPost, "/expenses", e)
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := c.call(http.MethodGet, "/expenses", nil)
	require.Equal(t, http.StatusOK, code)
	var listed []models.Entry
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 4)

	want := map[string]float64{}
	for _, e := range listed {
		want[e.Date.String()] += e.Amount
	}

	code, body = c.call(http.MethodGet, "/expense_bar_chart", nil)
	require.Equal(t, http.StatusOK, code)
	var fig struct {
		Data []struct {
			X []string  `json:"x"`
			Y []float64 `json:"y"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, fig.Data[0].X)
	got := map[string]float64{}
	for i, x := range fig.Data[0].X {
		got[x] = fig.Data[0].Y[i]
	}
	assert.InDeltaMapValues(t, want, got, 1e-9)

	for _, e := range listed {
		code, _ := c.call(http.MethodDelete, "/expenses/"+strconv.FormatInt(e.ID, 10), nil)
		require.Equal(t, http.StatusOK, code)
	}
	code, _ = c.call(http.MethodGet, "/expense_bar_chart", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateMissingIDCreatesNothing(t *testing.T) {
	c := start(t, testConfig())

	code, _ := c.call(http.MethodPut, "/incomes/5", map[string]any{"username": "a", "amount": 1, "date": "2024-01-01"})
	require.Equal(t, http.StatusOK, code)

	code, body := c.call(http.MethodGet, "/incomes", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestRequireAuthProtectsLedgers(t *testing.T) {
	cfg := testConfig()
	cfg.RequireAuth = true
	c := start(t, cfg)

	code, _ := c.call(http.MethodGet, "/expenses", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	creds := map[string]string{"username": "alice", "password": "pw"}
	code, _ = c.call(http.MethodPost, "/signup", creds)
	require.Equal(t, http.StatusCreated, code)
	_, body := c.call(http.MethodPost, "/login", creds)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))

	c.token = login.Token
	code, _ = c.call(http.MethodGet, "/expenses", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCredentialRoutesAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	c := start(t, cfg)

	creds := map[string]string{"username": "alice", "password": "pw"}
	code, _ := c.call(http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.call(http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, code)

	code, _ = c.call(http.MethodGet, "/expenses", nil)
	assert.Equal(t, http.StatusOK, code, "ledger routes are not throttled")
}

func TestUnknownRoutes(t *testing.T) {
	c := start(t, testConfig())

	code, body := c.call(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"message":"not found"}`, string(body))

	code, _ = c.call(http.MethodPatch, "/expenses", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestPreflightIsLogged(t *testing.T) {
	var buf bytes.Buffer
	srv := New(testConfig(), memory.NewStore(), slog.New(slog.NewTextHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodOptions, "/expenses", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
	out := buf.String()
	assert.Contains(t, out, "method=OPTIONS")
	assert.Contains(t, out, "path=/expenses")
	assert.NotContains(t, out, "request_id=\"\"")
	assert.Regexp(t, `request_id=\S+`, out)
}
