package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type MockCustomFieldCreator struct {
	mock.Mock
}

func (m *MockCustomFieldCreator) GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(storage.SecurityGroup), args.Error(1)
}

func (m *MockCustomFieldCreator) CustomFieldExists(ctx context.Context, teamID, name string) (bool, error) {
	args := m.Called(ctx, teamID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomFieldCreator) CreateCustomField(ctx context.Context, f storage.CustomField) error {
	return m.Called(ctx, f).Error(0)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/custom-fields", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", UserID: "u1"}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSaveCustomField_Success(t *testing.T) {
	m := new(MockCustomFieldCreator)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CustomFieldExists", mock.Anything, "t1", "Plate No").Return(false, nil)
	m.On("CreateCustomField", mock.Anything, mock.MatchedBy(func(f storage.CustomField) bool {
		_, err := uuid.Parse(f.ID)
		return err == nil && f.TeamID == "t1" && f.Name == "Plate No" && f.Type == "TEXT" && f.IsRequired
	})).Return(nil)

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"  Plate No ","field_type":"TEXT","field_is_required":true}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got storage.CustomField
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Plate No", got.Name)
	m.AssertExpectations(t)
}

func TestSaveCustomField_Forbidden(t *testing.T) {
	m := new(MockCustomFieldCreator)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{}, nil)

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"Plate No","field_type":"TEXT"}`)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	m.AssertNotCalled(t, "CustomFieldExists", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "CreateCustomField", mock.Anything, mock.Anything)
}

func TestSaveCustomField_DuplicateName(t *testing.T) {
	m := new(MockCustomFieldCreator)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CustomFieldExists", mock.Anything, "t1", "Plate No").Return(true, nil)

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"Plate No","field_type":"TEXT"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Custom field name already exists")
	m.AssertNotCalled(t, "CreateCustomField", mock.Anything, mock.Anything)
}

func TestSaveCustomField_DuplicateRace(t *testing.T) {
	m := new(MockCustomFieldCreator)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CustomFieldExists", mock.Anything, "t1", "Plate No").Return(false, nil)
	m.On("CreateCustomField", mock.Anything, mock.Anything).Return(storage.ErrDuplicateName)

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"Plate No","field_type":"TEXT"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSaveCustomField_Validation(t *testing.T) {
	m := new(MockCustomFieldCreator)

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"","field_type":"COLOR","category_ids":["not-a-uuid"]}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "This field is required", body.Errors["field_name"])
	assert.Contains(t, body.Errors["field_type"], "Must be one of")
	assert.Contains(t, body.Errors, "category_ids")
	m.AssertNotCalled(t, "GetSecurityGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveCustomField_StorageError(t *testing.T) {
	m := new(MockCustomFieldCreator)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{}, errors.New("down"))

	rr := post(SaveCustomField(slog.Default(), m), `{"field_name":"Plate No","field_type":"TEXT"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to create custom field")
}
