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
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/middleware/team"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const assetID = "3f1c2b9e-8a4d-4e6f-9b2a-1c3d5e7f9a0b"

type MockInventoryWriter struct {
	mock.Mock
}

func (m *MockInventoryWriter) GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(storage.SecurityGroup), args.Error(1)
}

func (m *MockInventoryWriter) CreateWarranty(ctx context.Context, e storage.WarrantyEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockInventoryWriter) CreateMaintenance(ctx context.Context, e storage.MaintenanceEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockInventoryWriter) EmployeeExists(ctx context.Context, teamID, hrisNumber string) (bool, error) {
	args := m.Called(ctx, teamID, hrisNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryWriter) CreateEmployee(ctx context.Context, e storage.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func postTo(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(team.WithIdentity(req.Context(), team.Identity{TeamID: "t1", UserID: "u1"}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSaveWarranty_Success(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CreateWarranty", mock.Anything, mock.MatchedBy(func(e storage.WarrantyEntry) bool {
		return e.AssetID == assetID && e.TeamID == "t1" && e.CreatedBy == "u1" && e.Months == 18 &&
			e.StartDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)) &&
			e.ExpirationDate.Equal(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	body := `{"asset_id":"` + assetID + `","warranty_description":" Parts and labor ","warranty_months":18,"warranty_start_date":"2024-01-31"}`
	rr := postTo(SaveWarranty(slog.Default(), m), "/api/inventory/warranties", body)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got storage.WarrantyEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Parts and labor", got.Description)
	m.AssertExpectations(t)
}

func TestSaveWarranty_FailureIsNotReportedAsSuccess(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CreateWarranty", mock.Anything, mock.Anything).Return(errors.New("down"))

	body := `{"asset_id":"` + assetID + `","warranty_description":"x","warranty_months":12,"warranty_start_date":"2024-01-01"}`
	rr := postTo(SaveWarranty(slog.Default(), m), "/api/inventory/warranties", body)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to add warranty")
	assert.NotContains(t, rr.Body.String(), "warranty_id")
}

func TestSaveWarranty_ValidationAndPermission(t *testing.T) {
	m := new(MockInventoryWriter)

	rr := postTo(SaveWarranty(slog.Default(), m), "/api/inventory/warranties", `{"asset_id":"nope","warranty_months":0,"warranty_start_date":"01/31/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "asset_id")
	assert.Contains(t, body.Errors, "warranty_months")
	assert.Equal(t, "This field is required", body.Errors["warranty_description"])
	assert.Contains(t, body.Errors["warranty_start_date"], "YYYY-MM-DD")

	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanUpdate: true}, nil)
	ok := `{"asset_id":"` + assetID + `","warranty_description":"x","warranty_months":12,"warranty_start_date":"2024-01-01"}`
	rr = postTo(SaveWarranty(slog.Default(), m), "/api/inventory/warranties", ok)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	m.AssertNotCalled(t, "CreateWarranty", mock.Anything, mock.Anything)
}

func TestSaveWarranty_UnknownAsset(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CreateWarranty", mock.Anything, mock.Anything).Return(storage.ErrNotFound)

	body := `{"asset_id":"` + assetID + `","warranty_description":"x","warranty_months":12,"warranty_start_date":"2024-01-01"}`
	rr := postTo(SaveWarranty(slog.Default(), m), "/api/inventory/warranties", body)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSaveMaintenance_Success(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CreateMaintenance", mock.Anything, mock.MatchedBy(func(e storage.MaintenanceEntry) bool {
		return e.AssetID == assetID && e.Name == "Battery swap" && e.Cost.Equal(decimal.RequireFromString("1500.50")) &&
			e.DateCompleted.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	body := `{"asset_id":"` + assetID + `","maintenance_name":"Battery swap","maintenance_cost":"1500.5","maintenance_date_completed":"2024-03-01"}`
	rr := postTo(SaveMaintenance(slog.Default(), m), "/api/inventory/maintenance", body)

	assert.Equal(t, http.StatusCreated, rr.Code)
	m.AssertExpectations(t)
}

func TestSaveMaintenance_RejectsBadCost(t *testing.T) {
	m := new(MockInventoryWriter)

	rr := postTo(SaveMaintenance(slog.Default(), m), "/api/inventory/maintenance",
		`{"asset_id":"`+assetID+`","maintenance_name":"x","maintenance_cost":"-5","maintenance_date_completed":"2024-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "maintenance_cost")

	rr = postTo(SaveMaintenance(slog.Default(), m), "/api/inventory/maintenance",
		`{"asset_id":"`+assetID+`","maintenance_name":"x","maintenance_cost":"abc","maintenance_date_completed":"2024-03-01"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Must be a number")

	m.AssertNotCalled(t, "GetSecurityGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveMaintenance_FailureIsNotReportedAsSuccess(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("CreateMaintenance", mock.Anything, mock.Anything).Return(errors.New("down"))

	body := `{"asset_id":"` + assetID + `","maintenance_name":"Battery swap","maintenance_date_completed":"2024-03-01"}`
	rr := postTo(SaveMaintenance(slog.Default(), m), "/api/inventory/maintenance", body)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to add maintenance")
}

func TestSaveEmployee_Success(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("EmployeeExists", mock.Anything, "t1", "HRIS-001").Return(false, nil)
	m.On("CreateEmployee", mock.Anything, mock.MatchedBy(func(e storage.Employee) bool {
		return e.HRISNumber == "HRIS-001" && e.FirstName == "Juan" && e.TeamID == "t1"
	})).Return(nil)

	rr := postTo(SaveEmployee(slog.Default(), m), "/api/inventory/employees", `{"hris_number":" hris-001 ","first_name":"Juan","last_name":"Dela Cruz"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	m.AssertExpectations(t)
}

func TestSaveEmployee_DuplicateHRISNeverWrites(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("EmployeeExists", mock.Anything, "t1", "HRIS-001").Return(true, nil)

	rr := postTo(SaveEmployee(slog.Default(), m), "/api/inventory/employees", `{"hris_number":"HRIS-001","first_name":"Juan","last_name":"Dela Cruz"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "HRIS number already exists")
	m.AssertNotCalled(t, "CreateEmployee", mock.Anything, mock.Anything)
}

func TestSaveEmployee_DuplicateRace(t *testing.T) {
	m := new(MockInventoryWriter)
	m.On("GetSecurityGroup", mock.Anything, "t1", "u1").Return(storage.SecurityGroup{CanCreate: true}, nil)
	m.On("EmployeeExists", mock.Anything, "t1", "HRIS-001").Return(false, nil)
	m.On("CreateEmployee", mock.Anything, mock.Anything).Return(storage.ErrDuplicateName)

	rr := postTo(SaveEmployee(slog.Default(), m), "/api/inventory/employees", `{"hris_number":"HRIS-001","first_name":"Juan","last_name":"Dela Cruz"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}
