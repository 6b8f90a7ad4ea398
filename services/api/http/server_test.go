package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/config"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

// stubStore serves the handful of store calls these tests reach. Anything else falls
// through to the nil embedded Store and panics.
type stubStore struct {
	thermal.Store

	pingErr error
	sites   []models.Site
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) InsertSite(_ context.Context, site models.Site) (models.Site, error) {
	site.ID = int64(len(s.sites) + 1)
	s.sites = append(s.sites, site)
	return site, nil
}

func (s *stubStore) GetSite(_ context.Context, id int64) (*models.Site, error) {
	for _, site := range s.sites {
		if site.ID == id {
			return &site, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetSiteByCode(_ context.Context, code string) (*models.Site, error) {
	for _, site := range s.sites {
		if site.SiteCode == code {
			return &site, nil
		}
	}
	return nil, nil
}

func newTestServer(t *testing.T, st thermal.Store, token string) *Server {
	t.Helper()
	cfg := config.Config{
		Port:             8080,
		BearerToken:      token,
		CORSAllowOrigins: []string{"*"},
		RequestTimeout:   time.Second,
		MetricsEnabled:   true,
	}
	svc := thermal.New(st, nil, zerolog.Nop(), thermal.Options{BulkConcurrency: 2})
	return New(cfg, svc, zerolog.Nop())
}

func do(t *testing.T, srv *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

const siteBody = `{"site_name":"Baker Creek","site_code":"BC","latitude":62.5,"longitude":-114.4,"region":"yellowknife"}`

func TestHealthz(t *testing.T) {
	st := &stubStore{}
	srv := newTestServer(t, st, "")

	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	st.pingErr = errors.New("connection refused")
	rec = do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBearerTokenGuardsAPIOnly(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "s3cret")

	rec := do(t, srv, http.MethodGet, "/api/v1/sites/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/sites/1", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/sites/1", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAndGetSite(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")

	rec := do(t, srv, http.MethodPost, "/api/v1/sites", siteBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var site models.Site
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &site))
	assert.Equal(t, int64(1), site.ID)
	assert.Equal(t, "BC", site.SiteCode)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = do(t, srv, http.MethodGet, "/api/v1/sites/code/BC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &site))
	assert.Equal(t, "Baker Creek", site.SiteName)

	rec = do(t, srv, http.MethodPost, "/api/v1/sites", siteBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "already_exists", env.Code)
	assert.Contains(t, env.Error, "site BC already exists")
}

func TestErrorEnvelopes(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
		msg    string
	}{
		{"missing site", http.MethodGet, "/api/v1/sites/42", "", http.StatusNotFound, "not_found", "site 42 does not exist"},
		{"bad id", http.MethodGet, "/api/v1/sites/abc", "", http.StatusBadRequest, "invalid_input", "id must be a positive integer"},
		{"unknown region", http.MethodPost, "/api/v1/sites",
			strings.Replace(siteBody, "yellowknife", "atlantis", 1), http.StatusBadRequest, "invalid_input", "region is not a known region"},
		{"malformed body", http.MethodPost, "/api/v1/sites", `{"site_name":`, http.StatusBadRequest, "invalid_input", "invalid request body"},
		{"dump without filter", http.MethodGet, "/api/v1/visits/dump", "", http.StatusBadRequest, "invalid_input", "year or region must be specified"},
		{"dump bad year", http.MethodGet, "/api/v1/visits/dump?year=last", "", http.StatusBadRequest, "invalid_input", "year must be an integer"},
		{"survey of unknown type", http.MethodGet, "/api/v1/installations/survey/kite", "", http.StatusBadRequest, "invalid_input", "kite is not one of"},
		{"by_visit without visit", http.MethodGet, "/api/v1/deployments/by_visit", "", http.StatusBadRequest, "invalid_input", "exactly one of"},
		{"bad max_hours", http.MethodGet, "/api/v1/installations/1/visits/closest?date=2021-01-01T00:00:00Z&max_hours=soon", "",
			http.StatusBadRequest, "invalid_input", "max_hours must be a number"},
		{"naive date", http.MethodGet, "/api/v1/cables/1/sensors/2/as_of?date=2021-01-01T00:00:00", "",
			http.StatusBadRequest, "invalid_input", "is not time zone aware"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			env := decode(t, rec)
			assert.Equal(t, tt.code, env.Code)
			assert.Contains(t, env.Error, tt.msg)
		})
	}
}

func TestBulkReportsEveryItem(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")

	body := `[
		{"logger_id": 1, "cable_sensor_id": 2, "installation_id": 3, "date_time": "2021-06-01T00:00:00Z", "temperature": 1.5},
		{"logger_id": 1, "logger_download_id": 4, "cable_sensor_id": 2, "installation_id": 3, "date_time": "2021-06-01T00:00:00", "temperature": 1.5}
	]`
	rec := do(t, srv, http.MethodPost, "/api/v1/cable_logger_data/bulk?return_data=false", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decode(t, rec)
	var results []thermal.BulkResult[models.CableLoggerData]
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, thermal.BulkFailed, results[0].Status)
	assert.Contains(t, results[0].Error, "logger_download_id is required")
	assert.Equal(t, 1, results[1].Index)
	assert.Contains(t, results[1].Error, "is not time zone aware")
	assert.EqualValues(t, 2, env.Meta["count"])
	assert.EqualValues(t, 2, env.Meta["failed"])
	assert.EqualValues(t, 0, env.Meta["success"])

	rec = do(t, srv, http.MethodPost, "/api/v1/cable_logger_data/bulk?silence_duplicates=maybe", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")

	rec := do(t, srv, http.MethodGet, "/healthz", "", "X-Request-ID", "req-123")
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = do(t, srv, http.MethodOptions, "/api/v1/sites", "", "Origin", "https://field.example.org")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSAllowList(t *testing.T) {
	cfg := config.Config{CORSAllowOrigins: []string{"https://field.example.org"}, RequestTimeout: time.Second}
	srv := New(cfg, thermal.New(&stubStore{}, nil, zerolog.Nop(), thermal.Options{}), zerolog.Nop())

	rec := do(t, srv, http.MethodGet, "/healthz", "", "Origin", "https://field.example.org")
	assert.Equal(t, "https://field.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	rec = do(t, srv, http.MethodGet, "/healthz", "", "Origin", "https://elsewhere.example.org")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")
	do(t, srv, http.MethodGet, "/api/v1/sites/7", "")

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `thermal_http_requests_total{method="GET",route="/api/v1/sites/:id",status="404"}`)
}

func TestCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, "")

	rec := do(t, srv, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cat struct {
		Regions     []string `json:"regions"`
		MaxChannels int      `json:"max_channels"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cat))
	assert.Contains(t, cat.Regions, "yellowknife")
	assert.Equal(t, 64, cat.MaxChannels)
}
