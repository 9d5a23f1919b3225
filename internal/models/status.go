package models

import "strings"

// Canonical order statuses. Everything read from the store goes through
// NormalizeStatus before comparison; no other labels reach business logic.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// NormalizeStatus maps a stored status to its canonical label. Empty or
// missing values and the legacy "unpaid" label mean the order is still
// awaiting settlement. Idempotent.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "", "unpaid", StatusPending:
		return StatusPending
	case StatusPaid:
		return StatusPaid
	case StatusCancelled:
		return StatusCancelled
	default:
		return s
	}
}
