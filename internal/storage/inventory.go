package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type WarrantyEntry struct {
	ID             string    `json:"warranty_id"`
	TeamID         string    `json:"team_id"`
	AssetID        string    `json:"asset_id"`
	Description    string    `json:"warranty_description"`
	Months         int       `json:"warranty_months"`
	StartDate      time.Time `json:"warranty_start_date"`
	ExpirationDate time.Time `json:"warranty_expiration_date"`
	CreatedBy      string    `json:"warranty_created_by"`
	CreatedAt      time.Time `json:"warranty_date_created"`
}

type MaintenanceEntry struct {
	ID            string          `json:"maintenance_id"`
	TeamID        string          `json:"team_id"`
	AssetID       string          `json:"asset_id"`
	Name          string          `json:"maintenance_name"`
	PerformedBy   string          `json:"maintenance_performed_by"`
	Notes         string          `json:"maintenance_notes"`
	Cost          decimal.Decimal `json:"maintenance_cost"`
	DateCompleted time.Time       `json:"maintenance_date_completed"`
	CreatedBy     string          `json:"maintenance_created_by"`
	CreatedAt     time.Time       `json:"maintenance_date_created"`
}

type Employee struct {
	ID           string    `json:"employee_id"`
	TeamID       string    `json:"team_id"`
	HRISNumber   string    `json:"hris_number"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	JobTitle     string    `json:"job_title"`
	SiteID       string    `json:"site_id,omitempty"`
	DepartmentID string    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"employee_date_created"`
}

// Records whose status can be changed.
const (
	StatusRequest = "request"
	StatusEvent   = "event"
)
