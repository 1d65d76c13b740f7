package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/fetch"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/filters"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type MockReportUpdater struct {
	mock.Mock
}

func (m *MockReportUpdater) SetFilter(ctx context.Context, req views.Request, key string, value any) (*views.Table, bool, error) {
	args := m.Called(ctx, req, key, value)
	t, _ := args.Get(0).(*views.Table)
	return t, args.Bool(1), args.Error(2)
}

func (m *MockReportUpdater) SubmitFilters(ctx context.Context, req views.Request) (*views.Table, []string, error) {
	args := m.Called(ctx, req)
	t, _ := args.Get(0).(*views.Table)
	keys, _ := args.Get(1).([]string)
	return t, keys, args.Error(2)
}

func (m *MockReportUpdater) SetSort(ctx context.Context, req views.Request, sort storage.Sort) (*views.Table, error) {
	args := m.Called(ctx, req, sort)
	t, _ := args.Get(0).(*views.Table)
	return t, args.Error(1)
}

func (m *MockReportUpdater) ToggleColumn(ctx context.Context, req views.Request, accessor string) (bool, error) {
	args := m.Called(ctx, req, accessor)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportUpdater) Reset(ctx context.Context, req views.Request) error {
	return m.Called(ctx, req).Error(0)
}

var assetReq = views.Request{View: "inventory-asset-report-list", TeamID: "t1", TeamName: "SCIC", UserID: "u1"}

func do(h http.HandlerFunc, method, pattern, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Method(method, pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", TeamName: "SCIC", UserID: "u1"}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUpdateFilter_AppliesAndResetsPage(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("SetFilter", mock.Anything, assetReq, "status", "Available").
		Return(&views.Table{State: fetch.State{Page: 1}}, true, nil)

	rr := do(UpdateFilter(slog.Default(), u), http.MethodPut, "/api/reports/{view}/filters",
		"/api/reports/inventory-asset-report-list/filters", `{"key":"status","value":"Available"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"changed":true`)
	assert.Contains(t, rr.Body.String(), `"page":1`)
	u.AssertExpectations(t)
}

func TestUpdateFilter_Validation(t *testing.T) {
	u := new(MockReportUpdater)

	rr := do(UpdateFilter(slog.Default(), u), http.MethodPut, "/api/reports/{view}/filters",
		"/api/reports/v/filters", `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(UpdateFilter(slog.Default(), u), http.MethodPut, "/api/reports/{view}/filters",
		"/api/reports/v/filters", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	u.AssertNotCalled(t, "SetFilter")
}

func TestUpdateFilter_UnknownFilter(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("SetFilter", mock.Anything, mock.Anything, "color", mock.Anything).
		Return(nil, false, fmt.Errorf("%w: color", filters.ErrUnknownFilter))

	rr := do(UpdateFilter(slog.Default(), u), http.MethodPut, "/api/reports/{view}/filters",
		"/api/reports/v/filters", `{"key":"color","value":"red"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitFilters(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("SubmitFilters", mock.Anything, assetReq).Return(&views.Table{}, []string{"search"}, nil)

	rr := do(SubmitFilters(slog.Default(), u), http.MethodPost, "/api/reports/{view}/filters/submit",
		"/api/reports/inventory-asset-report-list/filters/submit", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"changed":["search"]`)
}

func TestUpdateSort(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("SetSort", mock.Anything, assetReq, storage.Sort{Accessor: "inventory_request_cost", Direction: "desc"}).
		Return(&views.Table{}, nil)

	rr := do(UpdateSort(slog.Default(), u), http.MethodPut, "/api/reports/{view}/sort",
		"/api/reports/inventory-asset-report-list/sort", `{"accessor":"inventory_request_cost","direction":"desc"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(UpdateSort(slog.Default(), u), http.MethodPut, "/api/reports/{view}/sort",
		"/api/reports/inventory-asset-report-list/sort", `{"accessor":"x","direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	u.AssertNumberOfCalls(t, "SetSort", 1)
}

func TestToggleColumn(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("ToggleColumn", mock.Anything, assetReq, "inventory_request_serial_number").Return(false, nil)

	rr := do(ToggleColumn(slog.Default(), u), http.MethodPut, "/api/reports/{view}/columns/{accessor}/toggle",
		"/api/reports/inventory-asset-report-list/columns/inventory_request_serial_number/toggle", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"hidden":false`)
}

func TestResetView(t *testing.T) {
	u := new(MockReportUpdater)
	u.On("Reset", mock.Anything, assetReq).Return(nil).Once()
	u.On("Reset", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	rr := do(ResetView(slog.Default(), u), http.MethodDelete, "/api/reports/{view}", "/api/reports/inventory-asset-report-list", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(ResetView(slog.Default(), u), http.MethodDelete, "/api/reports/{view}", "/api/reports/inventory-asset-report-list", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
