package constants

// Report view keys. The key doubles as the persisted filter namespace.
const (
	ViewAssetList       = "inventory-asset-report-list"
	ViewWarrantyList    = "inventory-warranty-list"
	ViewMaintenanceList = "inventory-maintenance-list"
	ViewEmployeeList    = "inventory-employee-list"
	ViewCustomerList    = "inventory-customer-list"
	ViewCheckOutReport  = "inventory-check-out-report"
	ViewCheckInReport   = "inventory-check-in-report"
	ViewPersonReport    = "inventory-person-report"
	ViewSiteReport      = "inventory-site-report"
	ViewCustomerReport  = "inventory-customer-report"
	ViewSSOT            = "ssot-spreadsheet-view"
)

// ViewSource tells the MySQL adapter where a view reads from and which
// column every filter key maps to.
type ViewSource struct {
	Table         string
	TeamColumn    string
	SearchColumns []string
	FilterColumns map[string]string
	// Rows with this column set are left out unless the show_disabled
	// filter is on.
	DisabledColumn string
}

// Filter key that brings disabled rows back into a list.
const FilterShowDisabled = "show_disabled"

var assetFilterColumns = map[string]string{
	"sites":       "site_name",
	"categories":  "category_name",
	"departments": "department_name",
	"assignee":    "inventory_assignee_name",
	"status":      "inventory_request_status",
	"date_range":  "inventory_request_date_created",
}

var eventFilterColumns = map[string]string{
	"sites":       "site_name",
	"categories":  "category_name",
	"departments": "department_name",
	"assignee":    "inventory_assignee_name",
	"status":      "inventory_request_status",
	"date_range":  "inventory_event_date_created",
}

var ViewSources = map[string]ViewSource{
	ViewAssetList: {
		Table:         "inventory_asset_list_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_request_tag_id", "inventory_request_name", "inventory_request_serial_number"},
		FilterColumns: assetFilterColumns,
	},
	ViewWarrantyList: {
		Table:         "inventory_warranty_list_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_request_tag_id", "inventory_request_name", "warranty_vendor"},
		FilterColumns: map[string]string{
			"sites":      "site_name",
			"categories": "category_name",
			"date_range": "warranty_expiration_date",
		},
	},
	ViewMaintenanceList: {
		Table:         "inventory_maintenance_list_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_request_tag_id", "inventory_request_name", "maintenance_performed_by"},
		FilterColumns: map[string]string{
			"sites":      "site_name",
			"categories": "category_name",
			"date_range": "maintenance_date",
		},
	},
	ViewEmployeeList: {
		Table:         "inventory_employee_list_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"scic_employee_hris_id_number", "scic_employee_first_name", "scic_employee_last_name"},
		FilterColumns: map[string]string{
			"departments": "department_name",
		},
	},
	ViewCustomerList: {
		Table:         "inventory_customer_list_view",
		TeamColumn:    "team_id",
		SearchColumns:  []string{"customer_name", "customer_company"},
		FilterColumns:  map[string]string{},
		DisabledColumn: "customer_is_disabled",
	},
	ViewCheckOutReport: {
		Table:         "inventory_check_out_event_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_request_tag_id", "inventory_request_name"},
		FilterColumns: eventFilterColumns,
	},
	ViewCheckInReport: {
		Table:         "inventory_check_in_event_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_request_tag_id", "inventory_request_name"},
		FilterColumns: eventFilterColumns,
	},
	ViewPersonReport: {
		Table:         "inventory_person_event_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"inventory_assignee_name", "inventory_request_tag_id"},
		FilterColumns: eventFilterColumns,
	},
	ViewSiteReport: {
		Table:         "inventory_site_event_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"site_name", "inventory_request_tag_id"},
		FilterColumns: eventFilterColumns,
	},
	ViewCustomerReport: {
		Table:         "inventory_customer_event_view",
		TeamColumn:    "team_id",
		SearchColumns: []string{"customer_name", "inventory_request_tag_id"},
		FilterColumns: eventFilterColumns,
	},
}

// Filter key carrying the free-text search.
const FilterSearch = "search"

var (
	// Keys never shown as columns.
	ExcludedKeys = map[string]bool{
		"team_id":                           true,
		"inventory_request_id":              true,
		"inventory_request_form_id":         true,
		"inventory_request_site_id":         true,
		"inventory_request_category_id":     true,
		"inventory_request_department_id":   true,
		"inventory_request_assignee_id":     true,
		"inventory_event_id":                true,
		"inventory_event_request_id":        true,
		"user_signature_attachment_id":      true,
		"user_signature_attachment_value":   true,
		"scic_employee_id":                  true,
		"customer_id":                       true,
		"inventory_request_created_by":      true,
		"inventory_request_signature_value": true,
	}

	// Column titles visible on first mount; every other column starts hidden.
	AlwaysVisible = map[string][]string{
		ViewAssetList:       {"Asset Tag ID", "Asset Name", "Status", "Site Name", "Category Name", "Assignee Name", "Cost"},
		ViewWarrantyList:    {"Asset Tag ID", "Asset Name", "Warranty Vendor", "Warranty Expiration Date"},
		ViewMaintenanceList: {"Asset Tag ID", "Asset Name", "Maintenance Date", "Maintenance Performed By"},
		ViewEmployeeList:    {"Scic Employee Hris Id Number", "Scic Employee First Name", "Scic Employee Last Name"},
		ViewCustomerList:    {"Customer Name", "Customer Company"},
		ViewCheckOutReport:  {"Asset Tag ID", "Asset Name", "Assignee Name", "Date Created", "Due Date"},
		ViewCheckInReport:   {"Asset Tag ID", "Asset Name", "Assignee Name", "Date Created"},
		ViewPersonReport:    {"Asset Tag ID", "Asset Name", "Assignee Name", "Event Name"},
		ViewSiteReport:      {"Asset Tag ID", "Asset Name", "Site Name", "Event Name"},
		ViewCustomerReport:  {"Asset Tag ID", "Asset Name", "Customer Name", "Event Name"},
	}

	// Event-name prefixes stripped from accessors in event reports.
	EventPrefixes = []string{"check_out_", "check_in_", "appointment_", "inventory_event_"}
)
