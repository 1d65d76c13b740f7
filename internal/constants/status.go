package constants

import "github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"

type StatusTable struct {
	Table        string
	IDColumn     string
	TeamColumn   string
	StatusColumn string
	Statuses     map[string]bool
}

var StatusTables = map[string]StatusTable{
	storage.StatusRequest: {
		Table:        "inventory_request_table",
		IDColumn:     "inventory_request_id",
		TeamColumn:   "inventory_request_team_id",
		StatusColumn: "inventory_request_status",
		Statuses: map[string]bool{
			"AVAILABLE":         true,
			"CHECKED OUT":       true,
			"UNDER MAINTENANCE": true,
			"LOST":              true,
			"DISPOSED":          true,
			"LEASED":            true,
		},
	},
	storage.StatusEvent: {
		Table:        "inventory_event_table",
		IDColumn:     "inventory_event_id",
		TeamColumn:   "inventory_event_team_id",
		StatusColumn: "inventory_event_status",
		Statuses: map[string]bool{
			"PENDING":  true,
			"APPROVED": true,
			"REJECTED": true,
			"CANCELED": true,
		},
	},
}
