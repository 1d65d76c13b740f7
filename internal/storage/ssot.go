package storage

import (
	"context"
	"time"
)

const (
	ChildQuotation       = "quotation"
	ChildRIR             = "rir"
	ChildReleaseOrder    = "release_order"
	ChildChequeReference = "cheque_reference"
)

// Response is one field answer of a form request.
type Response struct {
	FieldName string  `json:"request_response_field_name"`
	Value     string  `json:"request_response"`
	SectionID *string `json:"request_response_duplicatable_section_id"`
}

// SSOTRecord is a requisition (or one of its descendants) with its field
// responses and child records keyed by child table name.
type SSOTRecord struct {
	ID          string                  `json:"request_id"`
	FormattedID string                  `json:"request_formsly_id"`
	Status      string                  `json:"request_status"`
	DateCreated time.Time               `json:"request_date_created"`
	Owner       string                  `json:"request_owner"`
	Responses   []Response              `json:"request_response_list"`
	Children    map[string][]SSOTRecord `json:"children,omitempty"`
}

type SSOTPage struct {
	Data  []SSOTRecord `json:"data"`
	Count int          `json:"count"`
}

// SSOTQuery pages over top-level requisitions of a team.
type SSOTQuery struct {
	TeamID string
	Page   int
	Limit  int
	Search string
	// Direction of the date created sort.
	Direction string
}

func (q SSOTQuery) Offset() int {
	return Query{Page: q.Page, Limit: q.Limit}.Offset()
}

type SSOTSource interface {
	ListSSOT(ctx context.Context, q SSOTQuery) (SSOTPage, error)
}
