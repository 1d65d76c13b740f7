package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// ListSSOT pages over requisitions and loads their descendants level by
// level, then the responses of every loaded request at once.
func (s *Storage) ListSSOT(ctx context.Context, q storage.SSOTQuery) (storage.SSOTPage, error) {
	const op = "storage.mysql.ListSSOT"

	where := " WHERE team_id = ? AND form_name = ? AND request_parent_id IS NULL"
	args := []any{q.TeamID, constants.SSOTRootForm}
	if term := strings.TrimSpace(q.Search); term != "" {
		where += " AND request_formsly_id LIKE ?"
		args = append(args, "%"+term+"%")
	}
	dir := "DESC"
	if strings.EqualFold(q.Direction, storage.SortAsc) {
		dir = "ASC"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	var (
		page  storage.SSOTPage
		roots []*node
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.QueryRowContext(gCtx, "SELECT COUNT(*) FROM ssot_request_view"+where, args...).Scan(&page.Count)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		stmt := "SELECT " + requestColumns + " FROM ssot_request_view" + where +
			" ORDER BY request_date_created " + dir + " LIMIT ? OFFSET ?"
		var err error
		roots, err = s.queryNodes(gCtx, stmt, append(append([]any{}, args...), limit, q.Offset())...)
		return err
	})
	if err := g.Wait(); err != nil {
		return storage.SSOTPage{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(roots) == 0 {
		return page, nil
	}

	all := make(map[string]*node, len(roots))
	level := roots
	for _, n := range roots {
		all[n.rec.ID] = n
	}
	for len(level) > 0 {
		ids := make([]any, 0, len(level))
		for _, n := range level {
			ids = append(ids, n.rec.ID)
		}
		stmt := "SELECT " + requestColumns + " FROM ssot_request_view WHERE request_parent_id IN (" +
			placeholders(len(ids)) + ") ORDER BY request_date_created ASC"
		children, err := s.queryNodes(ctx, stmt, ids...)
		if err != nil {
			return storage.SSOTPage{}, fmt.Errorf("%s: children: %w", op, err)
		}

		var next []*node
		for _, c := range children {
			if _, seen := all[c.rec.ID]; seen {
				continue
			}
			parent, ok := all[c.parentID]
			if !ok {
				continue
			}
			all[c.rec.ID] = c
			parent.children = append(parent.children, c)
			next = append(next, c)
		}
		level = next
	}

	if err := s.loadResponses(ctx, all); err != nil {
		return storage.SSOTPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page.Data = make([]storage.SSOTRecord, 0, len(roots))
	for _, n := range roots {
		page.Data = append(page.Data, n.build())
	}
	return page, nil
}

const requestColumns = "request_id, request_parent_id, form_name, request_formsly_id, request_status, request_date_created, request_owner"

type node struct {
	rec      storage.SSOTRecord
	parentID string
	form     string
	children []*node
}

// build converts the loaded tree. Children of forms outside the SSOT child
// tables are skipped along with their subtree.
func (n *node) build() storage.SSOTRecord {
	rec := n.rec
	for _, c := range n.children {
		table, ok := constants.SSOTChildForms[c.form]
		if !ok {
			continue
		}
		if rec.Children == nil {
			rec.Children = make(map[string][]storage.SSOTRecord)
		}
		rec.Children[table] = append(rec.Children[table], c.build())
	}
	return rec
}

func (s *Storage) queryNodes(ctx context.Context, stmt string, args ...any) ([]*node, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select requests: %w", err)
	}
	defer rows.Close()

	var out []*node
	for rows.Next() {
		var (
			n      node
			parent sql.NullString
		)
		err := rows.Scan(&n.rec.ID, &parent, &n.form, &n.rec.FormattedID, &n.rec.Status, &n.rec.DateCreated, &n.rec.Owner)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		n.parentID = parent.String
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("requests rows: %w", err)
	}
	return out, nil
}

func (s *Storage) loadResponses(ctx context.Context, nodes map[string]*node) error {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows, err := s.db.QueryContext(ctx,
		"SELECT request_id, field_name, response, section_id FROM ssot_response_view WHERE request_id IN ("+
			placeholders(len(ids))+") ORDER BY request_id, field_order, response_id",
		anyStrings(ids)...,
	)
	if err != nil {
		return fmt.Errorf("select responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      string
			r       storage.Response
			section sql.NullString
		)
		if err := rows.Scan(&id, &r.FieldName, &r.Value, &section); err != nil {
			return fmt.Errorf("scan response: %w", err)
		}
		if section.Valid {
			sec := section.String
			r.SectionID = &sec
		}
		if n, ok := nodes[id]; ok {
			n.rec.Responses = append(n.rec.Responses, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("responses rows: %w", err)
	}
	return nil
}
