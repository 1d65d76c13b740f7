package get

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/views"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type MockAdminProvider struct {
	mock.Mock
}

func (m *MockAdminProvider) ListCustomFields(ctx context.Context, teamID string) ([]storage.CustomField, error) {
	args := m.Called(ctx, teamID)
	f, _ := args.Get(0).([]storage.CustomField)
	return f, args.Error(1)
}

func (m *MockAdminProvider) GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(storage.SecurityGroup), args.Error(1)
}

func withTeam(req *http.Request) *http.Request {
	return req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", UserID: "u1"}))
}

func TestGetCustomFields(t *testing.T) {
	m := new(MockAdminProvider)
	m.On("ListCustomFields", mock.Anything, "t1").Return(nil, nil).Once()
	m.On("ListCustomFields", mock.Anything, "t1").Return(nil, errors.New("down"))

	rr := httptest.NewRecorder()
	GetCustomFields(slog.Default(), m).ServeHTTP(rr, withTeam(httptest.NewRequest(http.MethodGet, "/api/inventory/custom-fields", nil)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = httptest.NewRecorder()
	GetCustomFields(slog.Default(), m).ServeHTTP(rr, withTeam(httptest.NewRequest(http.MethodGet, "/api/inventory/custom-fields", nil)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch custom field list")
}

func TestGetSecurityGroup(t *testing.T) {
	m := new(MockAdminProvider)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{Sites: []string{"HQ"}}, nil)

	rr := httptest.NewRecorder()
	GetSecurityGroup(slog.Default(), m).ServeHTTP(rr, withTeam(httptest.NewRequest(http.MethodGet, "/api/inventory/security-group", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var g storage.SecurityGroup
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	assert.Equal(t, []string{"HQ"}, g.Sites)
}

type catalog map[string]views.Definition

func (c catalog) Definitions() map[string]views.Definition { return c }

func TestGetViews_SortedByKey(t *testing.T) {
	rr := httptest.NewRecorder()
	GetViews(slog.Default(), catalog(views.Catalog())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/views", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []ViewSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 10)
	assert.Equal(t, "inventory-asset-report-list", got[0].Key)
	assert.Equal(t, 2, got[0].Version)
}
