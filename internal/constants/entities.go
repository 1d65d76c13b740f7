package constants

import "github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"

type EntityTable struct {
	Table          string
	IDColumn       string
	TeamColumn     string
	DisabledColumn string
}

// Soft-deletable entities.
var DisableTables = map[string]EntityTable{
	storage.EntitySite: {
		Table:          "site_table",
		IDColumn:       "site_id",
		TeamColumn:     "site_team_id",
		DisabledColumn: "site_is_disabled",
	},
	storage.EntityCategory: {
		Table:          "category_table",
		IDColumn:       "category_id",
		TeamColumn:     "category_team_id",
		DisabledColumn: "category_is_disabled",
	},
	storage.EntityCustomer: {
		Table:          "customer_table",
		IDColumn:       "customer_id",
		TeamColumn:     "customer_team_id",
		DisabledColumn: "customer_is_disabled",
	},
	storage.EntityCustomField: {
		Table:          "field_table",
		IDColumn:       "field_id",
		TeamColumn:     "field_team_id",
		DisabledColumn: "field_is_disabled",
	},
}
