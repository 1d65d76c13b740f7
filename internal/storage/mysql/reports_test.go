package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

func TestFetch_PassesPageSortAndFilters(t *testing.T) {
	s, mock := newMock(t)

	q := storage.Query{
		View:   constants.ViewAssetList,
		TeamID: "t1",
		Page:   2,
		Limit:  10,
		Sort:   storage.Sort{Accessor: "inventory_request_cost", Direction: storage.SortDesc},
		Filters: map[string]any{
			"search": "lap",
			"sites":  []string{"HQ"},
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `inventory_asset_list_view` WHERE `team_id` = ?")).
		WithArgs("t1", "%lap%", "%lap%", "%lap%", "HQ").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta("`site_name` IN (?) ORDER BY `inventory_request_cost` DESC LIMIT ? OFFSET ?")).
		WithArgs("t1", "%lap%", "%lap%", "%lap%", "HQ", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"inventory_request_id", "inventory_request_cost", "inventory_assignee_list"}).
			AddRow("a1", []byte("1500.50"), []byte(`["Ana","Ben"]`)))

	page, err := s.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 42, page.Count)
	require.Len(t, page.Data, 1)
	assert.Equal(t, []string{"inventory_request_id", "inventory_request_cost", "inventory_assignee_list"}, page.Columns)
	assert.Equal(t, "1500.50", page.Data[0]["inventory_request_cost"])
	assert.Equal(t, []any{"Ana", "Ben"}, page.Data[0]["inventory_assignee_list"])
}

func TestFetch_UnknownView(t *testing.T) {
	s, _ := newMock(t)

	_, err := s.Fetch(context.Background(), storage.Query{View: "nope"})
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestFetch_RejectsBadSortColumn(t *testing.T) {
	s, _ := newMock(t)

	_, err := s.Fetch(context.Background(), storage.Query{
		View: constants.ViewAssetList,
		Sort: storage.Sort{Accessor: "cost; DROP TABLE x"},
	})
	assert.Error(t, err)
}

func TestWhereClause(t *testing.T) {
	from := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	where, args := whereClause(constants.ViewSources[constants.ViewAssetList], storage.Query{
		TeamID: "t1",
		Filters: map[string]any{
			"date_range": storage.DateRange{From: &from, To: &to},
			"status":     "Available",
			"unknown":    "ignored",
		},
	})
	assert.Equal(t, " WHERE `team_id` = ? AND `inventory_request_date_created` >= ? AND `inventory_request_date_created` < ? AND `inventory_request_status` = ?", where)
	assert.Equal(t, []any{
		"t1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		"Available",
	}, args)

	customers := constants.ViewSources[constants.ViewCustomerList]
	where, _ = whereClause(customers, storage.Query{TeamID: "t1"})
	assert.Contains(t, where, "`customer_is_disabled` = FALSE")

	where, _ = whereClause(customers, storage.Query{TeamID: "t1", Filters: map[string]any{constants.FilterShowDisabled: true}})
	assert.NotContains(t, where, "customer_is_disabled")
}

func TestOrderClause(t *testing.T) {
	o, err := orderClause(storage.Sort{Accessor: "inventory_request_name", Direction: "asc"})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY `inventory_request_name` ASC", o)

	o, err = orderClause(storage.Sort{})
	require.NoError(t, err)
	assert.Empty(t, o)
}
