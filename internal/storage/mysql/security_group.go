package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// GetSecurityGroup returns the group of a team member. A member without a
// group gets the zero value: no restrictions and no write permissions.
func (s *Storage) GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error) {
	const op = "storage.mysql.GetSecurityGroup"

	stmt := `
		SELECT group_sites, group_categories, group_departments,
		       group_can_create, group_can_update, group_can_disable
		FROM inventory_security_group_view
		WHERE team_id = ? AND user_id = ?
		LIMIT 1`

	var (
		g                        storage.SecurityGroup
		sites, cats, departments sql.NullString
	)
	err := s.db.QueryRowContext(ctx, stmt, teamID, userID).Scan(
		&sites, &cats, &departments,
		&g.CanCreate, &g.CanUpdate, &g.CanDisable,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SecurityGroup{}, nil
	}
	if err != nil {
		return storage.SecurityGroup{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range []struct {
		raw sql.NullString
		dst *[]string
	}{
		{sites, &g.Sites},
		{cats, &g.Categories},
		{departments, &g.Departments},
	} {
		if !f.raw.Valid || f.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw.String), f.dst); err != nil {
			return storage.SecurityGroup{}, fmt.Errorf("%s: decode group list: %w", op, err)
		}
	}
	return g, nil
}
