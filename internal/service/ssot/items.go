package ssot

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// Group is the set of responses sharing one duplicatable section id.
type Group struct {
	SectionID string
	Responses []storage.Response
}

// LineItem is one logical item row rebuilt from a response group.
type LineItem struct {
	SectionID      string   `json:"section_id"`
	Name           string   `json:"name"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	Description    string   `json:"description"`
	ParentQuantity *float64 `json:"parent_quantity,omitempty"`
}

// GroupBySection groups responses by section id. Groups keep the order of
// their first appearance and responses keep their relative order. Responses
// without a section id share the "" group.
func GroupBySection(responses []storage.Response) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range responses {
		id := ""
		if r.SectionID != nil {
			id = *r.SectionID
		}
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{SectionID: id})
		}
		groups[i].Responses = append(groups[i].Responses, r)
	}
	return groups
}

// ExtractItems turns every response group holding an item name into a line
// item. Fields without a known label end up in the description.
func ExtractItems(responses []storage.Response) []LineItem {
	var items []LineItem
	for _, g := range GroupBySection(responses) {
		item, ok := buildItem(g)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func buildItem(g Group) (LineItem, bool) {
	item := LineItem{SectionID: g.SectionID}
	hasName := false
	var desc []string

	for _, r := range g.Responses {
		label := strings.TrimSpace(r.FieldName)
		value := ResponseText(r.Value)

		switch {
		case constants.NameLabels[label]:
			item.Name = value
			hasName = true
		case constants.QuantityLabels[label]:
			q, err := strconv.ParseFloat(value, 64)
			if err == nil {
				item.Quantity = q
			}
		case constants.UnitLabels[label]:
			item.Unit = value
		case constants.IgnoredItemLabels[label]:
		default:
			if value != "" {
				desc = append(desc, label+": "+value)
			}
		}
	}

	item.Description = strings.Join(desc, ", ")
	return item, hasName
}

// ResponseText unwraps JSON encoded string answers.
func ResponseText(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		var s string
		if err := json.Unmarshal([]byte(v), &s); err == nil {
			return s
		}
	}
	return v
}

// LinkParentQuantities sets ParentQuantity of every child item that has a
// parent item with the same name and the same description.
func LinkParentQuantities(children, parents []LineItem) []LineItem {
	out := make([]LineItem, len(children))
	copy(out, children)

	for i := range out {
		out[i].ParentQuantity = nil
		for _, p := range parents {
			if p.Name == out[i].Name && p.Description == out[i].Description {
				q := p.Quantity
				out[i].ParentQuantity = &q
				break
			}
		}
	}
	return out
}
