package get

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/fetch"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
)

type MockReportProvider struct {
	mock.Mock
}

func (m *MockReportProvider) Table(ctx context.Context, req views.Request, page int) (*views.Table, error) {
	args := m.Called(ctx, req, page)
	t, _ := args.Get(0).(*views.Table)
	return t, args.Error(1)
}

func (m *MockReportProvider) More(ctx context.Context, req views.Request) (*views.Table, error) {
	args := m.Called(ctx, req)
	t, _ := args.Get(0).(*views.Table)
	return t, args.Error(1)
}

func (m *MockReportProvider) Columns(ctx context.Context, req views.Request) ([]columns.Descriptor, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).([]columns.Descriptor)
	return c, args.Error(1)
}

func (m *MockReportProvider) Title(view string) string {
	return "Asset"
}

var identity = team.Identity{TeamID: "t1", TeamName: "SCIC", UserID: "u1"}

func serve(h http.HandlerFunc, pattern, target string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get(pattern, h)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(team.WithIdentity(req.Context(), identity))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGetReport_Success(t *testing.T) {
	provider := new(MockReportProvider)
	want := views.Request{View: "inventory-asset-report-list", TeamID: "t1", TeamName: "SCIC", UserID: "u1"}
	provider.On("Table", mock.Anything, want, 2).Return(&views.Table{
		View:  want.View,
		Rows:  []map[string]string{{"inventory_request_tag_id": "TAG-1"}},
		State: fetch.State{Page: 2, Limit: 10, TotalRecords: 11},
	}, nil)

	rr := serve(GetReport(slog.Default(), provider), "/api/reports/{view}", "/api/reports/inventory-asset-report-list?page=2")

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(11), body["total_records"])
	provider.AssertExpectations(t)
}

func TestGetReport_InvalidPage(t *testing.T) {
	provider := new(MockReportProvider)

	rr := serve(GetReport(slog.Default(), provider), "/api/reports/{view}", "/api/reports/x?page=zero")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	provider.AssertNotCalled(t, "Table")
}

func TestGetReport_GenericError(t *testing.T) {
	provider := new(MockReportProvider)
	provider.On("Table", mock.Anything, mock.Anything, 1).Return(nil, errors.New("dial tcp: refused"))

	rr := serve(GetReport(slog.Default(), provider), "/api/reports/{view}", "/api/reports/inventory-asset-report-list")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch Asset list")
	assert.NotContains(t, rr.Body.String(), "dial tcp")
}

func TestGetReport_UnknownView(t *testing.T) {
	provider := new(MockReportProvider)
	provider.On("Table", mock.Anything, mock.Anything, 1).Return(nil, views.ErrUnknownView)

	rr := serve(GetReport(slog.Default(), provider), "/api/reports/{view}", "/api/reports/nope")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetMore(t *testing.T) {
	provider := new(MockReportProvider)
	provider.On("More", mock.Anything, mock.Anything).Return(&views.Table{State: fetch.State{Page: 3, HasMore: true}}, nil)

	rr := serve(GetMore(slog.Default(), provider), "/api/reports/{view}/more", "/api/reports/v/more")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"has_more":true`)
}

func TestGetColumns(t *testing.T) {
	provider := new(MockReportProvider)
	provider.On("Columns", mock.Anything, mock.Anything).Return([]columns.Descriptor{
		{Accessor: "inventory_request_name", Title: "Asset Name"},
	}, nil)

	rr := serve(GetColumns(slog.Default(), provider), "/api/reports/{view}/columns", "/api/reports/v/columns")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Asset Name")
}
