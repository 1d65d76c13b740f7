package views

import (
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/filters"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// FilterLimit is the page-size filter key. It never reaches the source as a
// filter.
const FilterLimit = "limit"

// Definition declares one report view.
type Definition struct {
	Key     string
	Version int
	Title   string

	Filters       []filters.Definition
	Registry      columns.Registry
	Excluded      map[string]bool
	Prefixes      []string
	AlwaysVisible []string
	DefaultSort   storage.Sort
	DefaultLimit  int

	// Detail page kind and the row key holding the record id.
	DetailKind  string
	DetailIDKey string
}

// FilterKey is the persisted namespace of the view's filter form.
func (d Definition) FilterKey() string {
	return d.Key + "-filter"
}

// ColumnKey is the persisted namespace of the view's column visibility.
func (d Definition) ColumnKey() string {
	return d.Key + "-table-column-filter"
}

func assetFilters() []filters.Definition {
	return []filters.Definition{
		{Key: constants.FilterSearch, Kind: filters.KindText},
		{Key: "sites", Kind: filters.KindMulti},
		{Key: "categories", Kind: filters.KindMulti},
		{Key: "departments", Kind: filters.KindMulti},
		{Key: "assignee", Kind: filters.KindMulti},
		{Key: "status", Kind: filters.KindSelect},
		{Key: "date_range", Kind: filters.KindDateRange},
		{Key: FilterLimit, Kind: filters.KindLimit, Default: 10},
	}
}

func eventView(key, title string, prefixes []string) Definition {
	return Definition{
		Key:           key,
		Version:       1,
		Title:         title,
		Filters:       assetFilters(),
		Registry:      columns.Inventory,
		Excluded:      constants.ExcludedKeys,
		Prefixes:      prefixes,
		AlwaysVisible: constants.AlwaysVisible[key],
		DefaultSort:   storage.Sort{Accessor: "inventory_event_date_created", Direction: storage.SortDesc},
		DefaultLimit:  10,
		DetailKind:    "asset",
		DetailIDKey:   "inventory_request_id",
	}
}

// Catalog returns every report view keyed by view key.
func Catalog() map[string]Definition {
	defs := []Definition{
		{
			Key:           constants.ViewAssetList,
			Version:       2,
			Title:         "Asset List",
			Filters:       assetFilters(),
			Registry:      columns.Inventory,
			Excluded:      constants.ExcludedKeys,
			AlwaysVisible: constants.AlwaysVisible[constants.ViewAssetList],
			DefaultSort:   storage.Sort{Accessor: "inventory_request_date_created", Direction: storage.SortDesc},
			DefaultLimit:  10,
			DetailKind:    "asset",
			DetailIDKey:   "inventory_request_id",
		},
		{
			Key:     constants.ViewWarrantyList,
			Version: 1,
			Title:   "Warranty List",
			Filters: []filters.Definition{
				{Key: constants.FilterSearch, Kind: filters.KindText},
				{Key: "sites", Kind: filters.KindMulti},
				{Key: "categories", Kind: filters.KindMulti},
				{Key: "date_range", Kind: filters.KindDateRange},
				{Key: FilterLimit, Kind: filters.KindLimit, Default: 10},
			},
			Registry: columns.Inventory.Merge(columns.Registry{
				"warranty_expiration_date": {Title: "Warranty Expiration Date", Kind: columns.KindDate, Sortable: true},
				"warranty_months":          {Title: "Warranty Months", Kind: columns.KindNumber, Sortable: true},
			}),
			Excluded:      constants.ExcludedKeys,
			AlwaysVisible: constants.AlwaysVisible[constants.ViewWarrantyList],
			DefaultSort:   storage.Sort{Accessor: "warranty_expiration_date", Direction: storage.SortAsc},
			DefaultLimit:  10,
			DetailKind:    "asset",
			DetailIDKey:   "inventory_request_id",
		},
		{
			Key:     constants.ViewMaintenanceList,
			Version: 1,
			Title:   "Maintenance List",
			Filters: []filters.Definition{
				{Key: constants.FilterSearch, Kind: filters.KindText},
				{Key: "sites", Kind: filters.KindMulti},
				{Key: "categories", Kind: filters.KindMulti},
				{Key: "date_range", Kind: filters.KindDateRange},
				{Key: FilterLimit, Kind: filters.KindLimit, Default: 10},
			},
			Registry: columns.Inventory.Merge(columns.Registry{
				"maintenance_date": {Title: "Maintenance Date", Kind: columns.KindDate, Sortable: true},
				"maintenance_cost": {Title: "Maintenance Cost", Kind: columns.KindCurrency, Sortable: true},
			}),
			Excluded:      constants.ExcludedKeys,
			AlwaysVisible: constants.AlwaysVisible[constants.ViewMaintenanceList],
			DefaultSort:   storage.Sort{Accessor: "maintenance_date", Direction: storage.SortDesc},
			DefaultLimit:  10,
			DetailKind:    "asset",
			DetailIDKey:   "inventory_request_id",
		},
		{
			Key:     constants.ViewEmployeeList,
			Version: 1,
			Title:   "Employee List",
			Filters: []filters.Definition{
				{Key: constants.FilterSearch, Kind: filters.KindText},
				{Key: "departments", Kind: filters.KindMulti},
				{Key: FilterLimit, Kind: filters.KindLimit, Default: 10},
			},
			Excluded:      constants.ExcludedKeys,
			AlwaysVisible: constants.AlwaysVisible[constants.ViewEmployeeList],
			DefaultSort:   storage.Sort{Accessor: "scic_employee_last_name", Direction: storage.SortAsc},
			DefaultLimit:  10,
		},
		{
			Key:     constants.ViewCustomerList,
			Version: 1,
			Title:   "Customer List",
			Filters: []filters.Definition{
				{Key: constants.FilterSearch, Kind: filters.KindText},
				{Key: constants.FilterShowDisabled, Kind: filters.KindToggle, Default: false},
				{Key: FilterLimit, Kind: filters.KindLimit, Default: 10},
			},
			Excluded:      constants.ExcludedKeys,
			AlwaysVisible: constants.AlwaysVisible[constants.ViewCustomerList],
			DefaultSort:   storage.Sort{Accessor: "customer_name", Direction: storage.SortAsc},
			DefaultLimit:  10,
		},
		eventView(constants.ViewCheckOutReport, "Check Out Report", constants.EventPrefixes),
		eventView(constants.ViewCheckInReport, "Check In Report", constants.EventPrefixes),
		eventView(constants.ViewPersonReport, "Per Person Report", constants.EventPrefixes),
		eventView(constants.ViewSiteReport, "Per Site Report", constants.EventPrefixes),
		eventView(constants.ViewCustomerReport, "Per Customer Report", constants.EventPrefixes),
	}

	out := make(map[string]Definition, len(defs))
	for _, d := range defs {
		out[d.Key] = d
	}
	return out
}
