package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/fetch"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/ssot"
)

type MockSSOTProvider struct {
	mock.Mock
}

func (m *MockSSOTProvider) Page(ctx context.Context, req ssot.Request, search string) (*ssot.View, error) {
	args := m.Called(ctx, req, search)
	v, _ := args.Get(0).(*ssot.View)
	return v, args.Error(1)
}

func (m *MockSSOTProvider) Reload(ctx context.Context, req ssot.Request) (*ssot.View, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*ssot.View)
	return v, args.Error(1)
}

func (m *MockSSOTProvider) More(ctx context.Context, req ssot.Request) (*ssot.View, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*ssot.View)
	return v, args.Error(1)
}

func request(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", UserID: "u1"}))
}

func TestGetSSOT(t *testing.T) {
	p := new(MockSSOTProvider)
	p.On("Page", mock.Anything, ssot.Request{TeamID: "t1", UserID: "u1"}, "REQ-1").Return(&ssot.View{
		Rows:  []ssot.NestedRow{{ID: "r1", Cells: map[string]string{"request_formsly_id": "REQ-1"}}},
		State: fetch.State{Page: 1, HasMore: true},
	}, nil)

	rr := httptest.NewRecorder()
	GetSSOT(slog.Default(), p).ServeHTTP(rr, request("/api/ssot?search=REQ-1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"request_formsly_id":"REQ-1"`)
	assert.Contains(t, rr.Body.String(), `"has_more":true`)
	p.AssertExpectations(t)
}

func TestGetSSOT_Error(t *testing.T) {
	p := new(MockSSOTProvider)
	p.On("Page", mock.Anything, mock.Anything, "").Return(nil, errors.New("boom"))

	rr := httptest.NewRecorder()
	GetSSOT(slog.Default(), p).ServeHTTP(rr, request("/api/ssot?search="))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to fetch requisition list")
}

func TestGetSSOT_WithoutSearchReloads(t *testing.T) {
	p := new(MockSSOTProvider)
	p.On("Reload", mock.Anything, ssot.Request{TeamID: "t1", UserID: "u1"}).Return(&ssot.View{Search: "cement"}, nil)

	rr := httptest.NewRecorder()
	GetSSOT(slog.Default(), p).ServeHTTP(rr, request("/api/ssot"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"search":"cement"`)
	p.AssertExpectations(t)
	p.AssertNotCalled(t, "Page", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSSOTMore(t *testing.T) {
	p := new(MockSSOTProvider)
	p.On("More", mock.Anything, ssot.Request{TeamID: "t1", UserID: "u1"}).Return(&ssot.View{State: fetch.State{Page: 2}}, nil)

	rr := httptest.NewRecorder()
	GetSSOTMore(slog.Default(), p).ServeHTTP(rr, request("/api/ssot/more"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"page":2`)
}
