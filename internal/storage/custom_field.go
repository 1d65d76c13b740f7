package storage

import "time"

type CustomField struct {
	ID          string    `json:"field_id"`
	TeamID      string    `json:"team_id"`
	Name        string    `json:"field_name"`
	Type        string    `json:"field_type"`
	IsRequired  bool      `json:"field_is_required"`
	CategoryIDs []string  `json:"category_ids"`
	CreatedAt   time.Time `json:"field_date_created"`
}

// Entities that can be soft-deleted.
const (
	EntitySite        = "site"
	EntityCategory    = "category"
	EntityCustomer    = "customer"
	EntityCustomField = "custom_field"
)
