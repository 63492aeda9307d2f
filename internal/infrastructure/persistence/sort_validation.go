package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PartSortFields contains allowed sort fields for parts
var PartSortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"sku":               true,
	"name":              true,
	"price":             true,
	"quantity_in_stock": true,
	"status":            true,
}

// OfferingSortFields contains allowed sort fields for service offerings
var OfferingSortFields = map[string]bool{
	"created_at": true,
	"code":       true,
	"name":       true,
	"price":      true,
}

// AppointmentSortFields contains allowed sort fields for appointments
var AppointmentSortFields = map[string]bool{
	"created_at":   true,
	"scheduled_at": true,
	"status":       true,
}

// ServiceOrderSortFields contains allowed sort fields for service orders
var ServiceOrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"status":       true,
	"completed_at": true,
}

// PartRequestSortFields contains allowed sort fields for part requests
var PartRequestSortFields = map[string]bool{
	"created_at": true,
	"status":     true,
	"urgency":    true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"issued_at": true,
	"due_at":    true,
	"amount":    true,
	"status":    true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"created_at": true,
}
