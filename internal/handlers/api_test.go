package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-router/internal/routing"
	"climate-router/internal/schedule"
	"climate-router/internal/storage"
)

func newTestAPI(t *testing.T) (*API, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	registry := routing.NewRegistry()
	require.NoError(t, registry.Add(&routing.Route{
		Name:       "device.state",
		Pattern:    "/device/[i:id]",
		Methods:    []string{"GET"},
		Controller: "DeviceController",
		Action:     "state",
	}))

	return NewAPI(store, schedule.NewEngine(loc), registry), store
}

func TestHealthEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestScheduleEntryLifecycle(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	body := `{
		"type": "default",
		"title": "Daytime",
		"device_ref": "thermostat-living",
		"valid_from": "2026-01-01",
		"valid_until": "2026-12-31",
		"start": "08:00",
		"end": "18:00",
		"value": 20.5
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/schedule/entries", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/schedule?from=2026-03-10&to=2026-03-11", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var timeline schedule.Timeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timeline))
	require.Len(t, timeline["2026-03-10"], 1)
	assert.Equal(t, "08:00", timeline["2026-03-10"][0].TimeStart)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/schedule/entries/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/schedule/entries/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEntryValidation(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing device", `{"type":"default","start":"08:00","end":"18:00"}`},
		{"bad time", `{"type":"default","device_ref":"x","start":"8am","end":"18:00"}`},
		{"inverted times", `{"type":"default","device_ref":"x","valid_from":"2026-01-01","valid_until":"2026-12-31","start":"18:00","end":"08:00"}`},
		{"unknown type", `{"type":"maybe","device_ref":"x","start":"08:00","end":"18:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/schedule/entries", bytes.NewBufferString(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTimelineBadRange(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/schedule?from=2026-03-11&to=2026-03-10", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRoutes(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/routes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var routes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	require.Len(t, routes, 1)
	assert.Equal(t, "device.state", routes[0]["name"])
}

func TestGeneratePath(t *testing.T) {
	api, _ := newTestAPI(t)
	router := api.Router(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/routes/device.state/path?id=42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"device.state","path":"/device/42"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/routes/unknown/path", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
