package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const mysqlDuplicateEntry = 1062

func (s *Storage) CustomFieldExists(ctx context.Context, teamID, name string) (bool, error) {
	const op = "storage.mysql.CustomFieldExists"

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM field_table
			WHERE field_team_id = ? AND LOWER(field_name) = LOWER(?) AND field_is_disabled = FALSE
		)`, teamID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateCustomField inserts the field and its category links in one
// transaction.
func (s *Storage) CreateCustomField(ctx context.Context, f storage.CustomField) error {
	const op = "storage.mysql.CreateCustomField"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO field_table (field_id, field_team_id, field_name, field_type, field_is_required, field_date_created)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.TeamID, f.Name, f.Type, f.IsRequired, f.CreatedAt,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return storage.ErrDuplicateName
		}
		return fmt.Errorf("%s: insert field: %w", op, err)
	}

	if len(f.CategoryIDs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO category_field_table (category_field_category_id, category_field_field_id)
			VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("%s: prepare category link: %w", op, err)
		}
		defer stmt.Close()

		for _, cat := range f.CategoryIDs {
			if _, err := stmt.ExecContext(ctx, cat, f.ID); err != nil {
				return fmt.Errorf("%s: link category %s: %w", op, cat, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (s *Storage) ListCustomFields(ctx context.Context, teamID string) ([]storage.CustomField, error) {
	const op = "storage.mysql.ListCustomFields"

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.field_id, f.field_team_id, f.field_name, f.field_type, f.field_is_required, f.field_date_created,
		       cf.category_field_category_id
		FROM field_table f
		LEFT JOIN category_field_table cf ON cf.category_field_field_id = f.field_id
		WHERE f.field_team_id = ? AND f.field_is_disabled = FALSE
		ORDER BY f.field_date_created DESC, f.field_id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var fields []storage.CustomField
	index := make(map[string]int)
	for rows.Next() {
		var (
			f   storage.CustomField
			cat sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.TeamID, &f.Name, &f.Type, &f.IsRequired, &f.CreatedAt, &cat); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		i, ok := index[f.ID]
		if !ok {
			i = len(fields)
			index[f.ID] = i
			fields = append(fields, f)
		}
		if cat.Valid {
			fields[i].CategoryIDs = append(fields[i].CategoryIDs, cat.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return fields, nil
}
