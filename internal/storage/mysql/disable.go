package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

var ErrUnknownEntity = errors.New("unknown entity")

// Disable soft-deletes one record of a team.
func (s *Storage) Disable(ctx context.Context, entity, teamID, id string) error {
	const op = "storage.mysql.Disable"

	t, ok := constants.DisableTables[entity]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownEntity, entity)
	}

	stmt := "UPDATE `" + t.Table + "` SET `" + t.DisabledColumn + "` = TRUE WHERE `" + t.IDColumn + "` = ? AND `" + t.TeamColumn + "` = ?"
	res, err := s.db.ExecContext(ctx, stmt, id, teamID)
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
