package mysql

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

var identifier = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Fetch reads one page of a report view. The count and the page run
// concurrently under the same filters.
func (s *Storage) Fetch(ctx context.Context, q storage.Query) (storage.Page, error) {
	const op = "storage.mysql.Fetch"

	src, ok := constants.ViewSources[q.View]
	if !ok {
		return storage.Page{}, fmt.Errorf("%s: %w: %s", op, ErrUnknownView, q.View)
	}

	where, args := whereClause(src, q)
	order, err := orderClause(q.Sort)
	if err != nil {
		return storage.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	countStmt := "SELECT COUNT(*) FROM `" + src.Table + "`" + where
	dataStmt := "SELECT * FROM `" + src.Table + "`" + where + order + " LIMIT ? OFFSET ?"
	dataArgs := append(append([]any{}, args...), limit, storage.Query{Page: q.Page, Limit: limit}.Offset())

	var page storage.Page
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.QueryRowContext(gCtx, countStmt, args...).Scan(&page.Count); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.db.QueryContext(gCtx, dataStmt, dataArgs...)
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
		defer rows.Close()

		data, cols, err := scanRows(rows)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		page.Data = data
		page.Columns = cols
		return nil
	})
	if err := g.Wait(); err != nil {
		return storage.Page{}, fmt.Errorf("%s: %s: %w", op, q.View, err)
	}
	return page, nil
}

// whereClause maps the filters onto the view's columns. Keys the view does
// not know are ignored.
func whereClause(src constants.ViewSource, q storage.Query) (string, []any) {
	conds := []string{"`" + src.TeamColumn + "` = ?"}
	args := []any{q.TeamID}

	showDisabled := false
	for _, key := range sortedKeys(q.Filters) {
		v := q.Filters[key]
		if key == constants.FilterShowDisabled {
			showDisabled, _ = v.(bool)
			continue
		}
		if key == constants.FilterSearch {
			term, _ := v.(string)
			if term = strings.TrimSpace(term); term == "" || len(src.SearchColumns) == 0 {
				continue
			}
			likes := make([]string, 0, len(src.SearchColumns))
			for _, c := range src.SearchColumns {
				likes = append(likes, "`"+c+"` LIKE ?")
				args = append(args, "%"+term+"%")
			}
			conds = append(conds, "("+strings.Join(likes, " OR ")+")")
			continue
		}

		col, ok := src.FilterColumns[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case []string:
			if len(val) == 0 {
				continue
			}
			conds = append(conds, "`"+col+"` IN ("+placeholders(len(val))+")")
			args = append(args, anyStrings(val)...)
		case storage.DateRange:
			if val.From != nil {
				conds = append(conds, "`"+col+"` >= ?")
				args = append(args, dayStart(*val.From))
			}
			if val.To != nil {
				conds = append(conds, "`"+col+"` < ?")
				args = append(args, dayStart(*val.To).AddDate(0, 0, 1))
			}
		case time.Time:
			conds = append(conds, "DATE(`"+col+"`) = ?")
			args = append(args, val.Format("2006-01-02"))
		case string, int, bool:
			conds = append(conds, "`"+col+"` = ?")
			args = append(args, val)
		}
	}

	if src.DisabledColumn != "" && !showDisabled {
		conds = append(conds, "`"+src.DisabledColumn+"` = FALSE")
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort storage.Sort) (string, error) {
	if sort.Accessor == "" {
		return "", nil
	}
	if !identifier.MatchString(sort.Accessor) {
		return "", fmt.Errorf("invalid sort column %q", sort.Accessor)
	}
	dir := "DESC"
	if strings.EqualFold(sort.Direction, storage.SortAsc) {
		dir = "ASC"
	}
	return " ORDER BY `" + sort.Accessor + "` " + dir, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
