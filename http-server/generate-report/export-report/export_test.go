package export_report

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/export"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
)

type MockReportExporter struct {
	mock.Mock
}

func (m *MockReportExporter) Export(ctx context.Context, req views.Request, ext string) (export.Table, string, error) {
	args := m.Called(ctx, req, ext)
	return args.Get(0).(export.Table), args.String(1), args.Error(2)
}

func (m *MockReportExporter) Title(view string) string {
	return "Asset List"
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/reports/{view}/export", h)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", UserID: "u1"}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

var sample = export.Table{
	Headers: []export.Header{{Label: "Asset Tag ID", Key: "tag"}, {Label: "Cost", Key: "cost"}},
	Records: []map[string]any{{"tag": "TAG-1", "cost": "₱1,500.50"}},
}

func TestExportReport_CSV(t *testing.T) {
	e := new(MockReportExporter)
	e.On("Export", mock.Anything, mock.Anything, "csv").
		Return(sample, "INVENTORY_ASSET_REPORT_LIST_SEARCH_ABC.csv", nil)

	rr := get(ExportReport(slog.Default(), e), "/api/reports/inventory-asset-report-list/export")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "INVENTORY_ASSET_REPORT_LIST_SEARCH_ABC.csv")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	assert.Equal(t, "Asset Tag ID,Cost", lines[0])
	assert.Equal(t, "TAG-1,\"₱1,500.50\"", lines[1])
}

func TestExportReport_XLSX(t *testing.T) {
	e := new(MockReportExporter)
	e.On("Export", mock.Anything, mock.Anything, "xlsx").Return(sample, "INVENTORY_ASSET_REPORT_LIST.xlsx", nil)

	rr := get(ExportReport(slog.Default(), e), "/api/reports/inventory-asset-report-list/export?format=xlsx")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestExportReport_BadFormat(t *testing.T) {
	e := new(MockReportExporter)

	rr := get(ExportReport(slog.Default(), e), "/api/reports/v/export?format=pdf")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	e.AssertNotCalled(t, "Export")
}

func TestExportReport_Failure(t *testing.T) {
	e := new(MockReportExporter)
	e.On("Export", mock.Anything, mock.Anything, "csv").Return(export.Table{}, "", errors.New("timeout"))

	rr := get(ExportReport(slog.Default(), e), "/api/reports/v/export")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch Asset List list")
}
