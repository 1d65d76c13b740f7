package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const mysqlNoReferencedRow = 1452

var ErrInvalidStatus = errors.New("invalid status")

// CreateWarranty adds a warranty entry to an asset. An unknown asset is
// reported as storage.ErrNotFound.
func (s *Storage) CreateWarranty(ctx context.Context, e storage.WarrantyEntry) error {
	const op = "storage.mysql.CreateWarranty"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_warranty_table (
			warranty_id, warranty_team_id, warranty_asset_id, warranty_description, warranty_months,
			warranty_start_date, warranty_expiration_date, warranty_created_by, warranty_date_created
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TeamID, e.AssetID, e.Description, e.Months,
		e.StartDate, e.ExpirationDate, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return insertError(op, err)
	}
	return nil
}

func (s *Storage) CreateMaintenance(ctx context.Context, e storage.MaintenanceEntry) error {
	const op = "storage.mysql.CreateMaintenance"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_maintenance_table (
			maintenance_id, maintenance_team_id, maintenance_asset_id, maintenance_name, maintenance_performed_by,
			maintenance_notes, maintenance_cost, maintenance_date_completed, maintenance_created_by, maintenance_date_created
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TeamID, e.AssetID, e.Name, nullString(e.PerformedBy),
		nullString(e.Notes), e.Cost.StringFixed(2), e.DateCompleted, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return insertError(op, err)
	}
	return nil
}

// EmployeeExists reports whether the HRIS number is taken in the team.
func (s *Storage) EmployeeExists(ctx context.Context, teamID, hrisNumber string) (bool, error) {
	const op = "storage.mysql.EmployeeExists"

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM team_employee_table
			WHERE employee_team_id = ? AND employee_hris_number = ? AND employee_is_disabled = FALSE
		)`, teamID, hrisNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func (s *Storage) CreateEmployee(ctx context.Context, e storage.Employee) error {
	const op = "storage.mysql.CreateEmployee"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_employee_table (
			employee_id, employee_team_id, employee_hris_number, employee_first_name, employee_last_name,
			employee_job_title, employee_site_id, employee_department_id, employee_date_created
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TeamID, e.HRISNumber, e.FirstName, e.LastName,
		nullString(e.JobTitle), nullString(e.SiteID), nullString(e.DepartmentID), e.CreatedAt,
	)
	if err != nil {
		return insertError(op, err)
	}
	return nil
}

// UpdateStatus sets the status of one asset request or event of a team.
func (s *Storage) UpdateStatus(ctx context.Context, kind, teamID, id, status string) error {
	const op = "storage.mysql.UpdateStatus"

	t, ok := constants.StatusTables[kind]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownEntity, kind)
	}
	if !t.Statuses[status] {
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidStatus, status)
	}

	stmt := "UPDATE `" + t.Table + "` SET `" + t.StatusColumn + "` = ? WHERE `" + t.IDColumn + "` = ? AND `" + t.TeamColumn + "` = ?"
	res, err := s.db.ExecContext(ctx, stmt, status, id, teamID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertError(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return storage.ErrDuplicateName
		case mysqlNoReferencedRow:
			return storage.ErrNotFound
		}
	}
	return fmt.Errorf("%s: insert: %w", op, err)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
