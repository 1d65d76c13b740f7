package ssot

import (
	"sync"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/visibility"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const (
	AccessorFormattedID = "request_formsly_id"
	AccessorStatus      = "request_status"
	AccessorDateCreated = "request_date_created"
	AccessorOwner       = "request_owner"
	AccessorItems       = "request_items"
)

// Root table name used for visibility keys.
const RootTable = "requisition"

var recordAccessors = []string{
	AccessorFormattedID,
	AccessorStatus,
	AccessorDateCreated,
	AccessorOwner,
	AccessorItems,
}

var recordRegistry = columns.Registry{
	AccessorFormattedID: {Title: "Formsly ID", Kind: columns.KindText},
	AccessorDateCreated: {Title: "Date Created", Kind: columns.KindDate},
}

type NestedRow struct {
	ID        string            `json:"id"`
	Cells     map[string]string `json:"cells"`
	Items     []LineItem        `json:"items"`
	SubTables []SubTable        `json:"sub_tables,omitempty"`
}

type SubTable struct {
	Name    string               `json:"name"`
	Columns []columns.Descriptor `json:"columns"`
	Rows    []NestedRow          `json:"rows"`
}

// Renderer lays out SSOT records as nested tables. Every table keeps its
// own column visibility.
type Renderer struct {
	columns []columns.Descriptor

	mu     sync.Mutex
	stores map[string]*visibility.Store
}

// NewRenderer takes the persisted hidden columns per table name.
func NewRenderer(hidden map[string][]string) *Renderer {
	d := columns.NewDeriver(recordRegistry, nil, []string{"request_"})
	r := &Renderer{
		columns: d.FromList(recordAccessors),
		stores:  make(map[string]*visibility.Store),
	}
	for table, h := range hidden {
		r.stores[table] = visibility.New(VisibilityKey(table), h)
	}
	return r
}

// VisibilityKey is the persistence key of one SSOT table.
func VisibilityKey(table string) string {
	return constants.ViewSSOT + "-" + table + "-table-column-filter"
}

// Store returns the visibility store of table, creating an empty one.
func (r *Renderer) Store(table string) *visibility.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[table]
	if !ok {
		s = visibility.New(VisibilityKey(table), nil)
		r.stores[table] = s
	}
	return s
}

// Tables lists every table name with a visibility store.
func (r *Renderer) Tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.stores))
	for k := range r.stores {
		out = append(out, k)
	}
	return out
}

// Render produces one row per top-level record. visible selects which child
// tables are laid out inside the parent row.
func (r *Renderer) Render(records []storage.SSOTRecord, visible map[string]bool) []NestedRow {
	return r.renderLevel(RootTable, records, nil, visible)
}

func (r *Renderer) renderLevel(table string, records []storage.SSOTRecord, parentItems []LineItem, visible map[string]bool) []NestedRow {
	cols := r.Store(table).Visible(r.columns)

	out := make([]NestedRow, 0, len(records))
	for _, rec := range records {
		items := ExtractItems(rec.Responses)
		if parentItems != nil {
			items = LinkParentQuantities(items, parentItems)
		}

		row := NestedRow{
			ID:    rec.ID,
			Cells: make(map[string]string, len(cols)),
			Items: items,
		}
		values := recordValues(rec, items)
		for _, c := range cols {
			row.Cells[c.Accessor] = c.Render(values)
		}

		for _, child := range constants.SSOTChildOrder {
			if !visible[child] {
				continue
			}
			// nested rows only carry the children they actually have
			if table != RootTable && len(rec.Children[child]) == 0 {
				continue
			}
			row.SubTables = append(row.SubTables, SubTable{
				Name:    child,
				Columns: r.Store(child).Visible(r.columns),
				Rows:    r.renderLevel(child, rec.Children[child], items, visible),
			})
		}
		out = append(out, row)
	}
	return out
}

func recordValues(rec storage.SSOTRecord, items []LineItem) storage.Row {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return storage.Row{
		AccessorFormattedID: rec.FormattedID,
		AccessorStatus:      rec.Status,
		AccessorDateCreated: rec.DateCreated,
		AccessorOwner:       rec.Owner,
		AccessorItems:       names,
	}
}
