package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pakalnivut/backend/internal/dispatch"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/storage"
	"github.com/pakalnivut/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type testServer struct {
	e     *echo.Echo
	store *dispatchlog.Store
	kv    *testutil.MockKV
	clock *testutil.Clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	kv := testutil.NewMockKV()
	store := dispatchlog.NewStore(kv, storage.JSONCodec{}, nil)
	clock := testutil.NewClock(10, 0)
	svc := dispatch.NewService(store, clock.Now, dispatch.Defaults{DistanceKm: 5, SpeedKmh: 2.5, StepKm: 0.1}, nil)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Repo:    store,
		Service: svc,
		Now:     clock.Now,
		Version: "test",
	}))
	return &testServer{e: e, store: store, kv: kv, clock: clock}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) dispatch(t *testing.T, nav int, number, name string, distance float64) {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"navigator":   nav,
		"squadNumber": number,
		"squadName":   name,
		"distanceKm":  distance,
		"speedKmh":    2.5,
	})
	rec := s.do(t, http.MethodPost, "/api/dispatch", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthAndClock(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)

	rec = s.do(t, http.MethodGet, "/api/clock", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"time":"10:00:00","clock":"10:00"}`, rec.Body.String())
}

func TestDispatch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/dispatch",
		`{"navigator":"2","squadNumber":"4","squadName":"Noa","distanceKm":5,"speedKmh":2.5,"addExtraTime":true,"extraMinutes":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[struct {
		Entry models.DispatchEntry `json:"entry"`
		Form  models.FormDefaults  `json:"form"`
	}](t, rec)
	assert.Equal(t, "10:00", resp.Entry.DispatchTime)
	assert.Equal(t, "12:10", resp.Entry.ArrivalTime)
	assert.Equal(t, models.Navigator2, resp.Entry.Navigator)
	assert.Equal(t, "5", resp.Form.SquadNumber)

	assert.Len(t, s.store.Load(models.Navigator2), 1)
	assert.Empty(t, s.store.Load(models.Navigator1))
}

func TestDispatch_Validation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/dispatch", `{"navigator":1,"squadNumber":"1","squadName":"","distanceKm":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.ElementsMatch(t, []string{"squadName", "distanceKm"}, apiErr.Fields)
	assert.Equal(t, 0, s.kv.SetCalls())
}

func TestDispatch_BadBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/dispatch", `{"distanceKm":"far"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode[APIError](t, rec).Code)
}

func TestDispatch_StoreFailure(t *testing.T) {
	s := newTestServer(t)
	s.kv.FailSet(true)

	rec := s.do(t, http.MethodPost, "/api/dispatch", `{"navigator":1,"squadNumber":"1","squadName":"a","distanceKm":1,"speedKmh":2}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode[APIError](t, rec).Code)
}

func TestForm(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/form", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"squadNumber":"1","distanceKm":5,"speedKmh":2.5,"stepKm":0.1}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/form/distance", `{"value":5,"delta":-0.1}`)
	assert.JSONEq(t, `{"distanceKm":4.9}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/form/distance", `{"delta":0.1}`)
	assert.JSONEq(t, `{"distanceKm":5.1}`, rec.Body.String())
}

func TestTable(t *testing.T) {
	s := newTestServer(t)
	s.dispatch(t, 1, "1", "Avi", 5)   // 12:00
	s.dispatch(t, 1, "2", "Ben", 0.5) // 10:12
	s.clock.Set(10, 5)

	rec := s.do(t, http.MethodGet, "/api/navigators/1/table?sort=arrival", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[models.TableView](t, rec)
	assert.Equal(t, "10:05", view.Now)
	assert.Equal(t, "arrival", view.SortColumn)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, 1, view.Rows[0].Index)
	assert.Equal(t, "0:07", view.Rows[0].Gap)
	assert.Equal(t, models.SeverityCritical, view.Rows[0].Severity)
	assert.Equal(t, "1:55", view.Rows[1].Gap)
	assert.Equal(t, models.SeverityNormal, view.Rows[1].Severity)
}

func TestTable_Msgpack(t *testing.T) {
	s := newTestServer(t)
	s.dispatch(t, 2, "1", "Avi", 5)

	rec := s.do(t, http.MethodGet, "/api/navigators/2/table/msgpack", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get(echo.HeaderContentType))

	var view models.TableView
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Avi", view.Rows[0].Entry.SquadName)
}

func TestTable_BadParams(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/navigators/3/table", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/navigators/1/table?sort=speed", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/navigators/1/spots/x/increment", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpots_FollowSortedView(t *testing.T) {
	s := newTestServer(t)
	s.dispatch(t, 1, "3", "Chen", 1)
	s.dispatch(t, 1, "1", "Avi", 2)
	s.dispatch(t, 1, "2", "Ben", 3)

	// Sorted by number, row 0 is squad 1, stored at index 1.
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/navigators/1/spots/0/increment?sort=number", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	stored := s.store.Load(models.Navigator1)
	assert.Equal(t, []int{0, 2, 0}, []int{stored[0].Spots, stored[1].Spots, stored[2].Spots})
	assert.Equal(t, []string{"3", "1", "2"}, []string{stored[0].SquadNumber, stored[1].SquadNumber, stored[2].SquadNumber})

	rec := s.do(t, http.MethodPost, "/api/navigators/1/spots/0/reset?sort=number", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.store.Load(models.Navigator1)[1].Spots)

	// Out of range is ignored.
	rec = s.do(t, http.MethodPost, "/api/navigators/1/spots/7/increment", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[models.TableView](t, rec).Rows, 3)
}

func TestNavigatorsAndClear(t *testing.T) {
	s := newTestServer(t)
	s.dispatch(t, 2, "1", "Avi", 5)

	rec := s.do(t, http.MethodGet, "/api/navigators", "")
	assert.JSONEq(t, `[{"navigator":"1","count":0,"active":false},{"navigator":"2","count":1,"active":true}]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"squadNumber":"1"`)

	assert.Empty(t, s.store.Load(models.Navigator1))
	assert.Empty(t, s.store.Load(models.Navigator2))
}

func TestClear_Failure(t *testing.T) {
	s := newTestServer(t)
	s.kv.FailDelete(true)

	rec := s.do(t, http.MethodDelete, "/api/tables", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"api error", NewNotFoundError("navigator", "3"), http.StatusNotFound, `"code":"NOT_FOUND"`},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, `"code":"HTTP_ERROR"`},
		{"domain validation", fromDomainError("x", &dispatch.ValidationError{Fields: []string{"squadName"}}), http.StatusBadRequest, `"fields":["squadName"]`},
		{"unknown navigator", fromDomainError("x", dispatchlog.ErrUnknownNavigator), http.StatusBadRequest, `"code":"BAD_REQUEST"`},
		{"plain error", assert.AnError, http.StatusInternalServerError, `"code":"UNKNOWN_ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
