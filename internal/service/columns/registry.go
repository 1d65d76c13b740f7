package columns

import "strings"

type Kind string

const (
	KindAuto     Kind = ""
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindCurrency Kind = "currency"
	KindBool     Kind = "bool"
	KindNumber   Kind = "number"
)

// Field is a known semantic field with a fixed title and formatter.
type Field struct {
	Title    string
	Kind     Kind
	Sortable bool
	Width    int
}

// Registry maps accessors of known fields to their typed description.
// Accessors missing from the registry fall back to name heuristics.
type Registry map[string]Field

func (r Registry) Lookup(accessor string) (Field, bool) {
	f, ok := r[accessor]
	return f, ok
}

// InferKind resolves the render kind for a value of an unregistered accessor.
func InferKind(accessor string, value any) Kind {
	key := strings.ToLower(accessor)
	switch {
	case strings.Contains(key, "date"):
		return KindDate
	case strings.Contains(key, "cost"), strings.Contains(key, "price"), strings.Contains(key, "amount"):
		return KindCurrency
	}
	if _, ok := value.(bool); ok {
		return KindBool
	}
	return KindText
}

// Common inventory fields. Views extend it with their own entries.
var Inventory = Registry{
	"inventory_request_tag_id":       {Title: "Asset Tag ID", Kind: KindText, Sortable: true, Width: 140},
	"inventory_request_name":         {Title: "Asset Name", Kind: KindText, Sortable: true, Width: 220},
	"inventory_request_cost":         {Title: "Cost", Kind: KindCurrency, Sortable: true, Width: 140},
	"inventory_request_status":       {Title: "Status", Kind: KindText, Sortable: true, Width: 120},
	"inventory_request_date_created": {Title: "Date Created", Kind: KindDate, Sortable: true, Width: 160},
	"inventory_request_purchase_date": {
		Title: "Purchase Date", Kind: KindDate, Sortable: true, Width: 160,
	},
	"inventory_request_is_leased": {Title: "Leased", Kind: KindBool, Sortable: false, Width: 90},
}

// Merge returns a registry holding r overlaid with other.
func (r Registry) Merge(other Registry) Registry {
	out := make(Registry, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
