package constants

import "github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"

// Known item field labels of SSOT forms.
const (
	LabelGeneralName = "General Name"
	LabelItem        = "Item"
	LabelQuantity    = "Quantity"
	LabelUnit        = "Unit of Measurement"
	LabelBaseUnit    = "Base Unit of Measurement"
)

var (
	NameLabels     = map[string]bool{LabelGeneralName: true, LabelItem: true}
	QuantityLabels = map[string]bool{LabelQuantity: true}
	UnitLabels     = map[string]bool{LabelUnit: true, LabelBaseUnit: true}

	// Header-only fields that never belong to a line item description.
	IgnoredItemLabels = map[string]bool{
		"Requisition ID":     true,
		"Quotation ID":       true,
		"RIR ID":             true,
		"Release Order ID":   true,
		"Cost Code":          true,
		"GL Account":         true,
		"CSI Code":           true,
		"Preferred Supplier": true,
	}

	// Form name to SSOT child table.
	SSOTChildForms = map[string]string{
		"Quotation":                   storage.ChildQuotation,
		"Receiving Inspecting Report": storage.ChildRIR,
		"Release Order":               storage.ChildReleaseOrder,
		"Cheque Reference":            storage.ChildChequeReference,
	}

	SSOTChildOrder = []string{
		storage.ChildQuotation,
		storage.ChildRIR,
		storage.ChildReleaseOrder,
		storage.ChildChequeReference,
	}
)

const SSOTRootForm = "Requisition"
