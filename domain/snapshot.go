package domain

import "time"

// Snapshot is a saved version of the assumptions of one property.
type Snapshot struct {
	ID          string      `json:"id"`
	PropertyID  string      `json:"property_id"`
	Assumptions Assumptions `json:"assumptions"`
	CreatedAt   time.Time   `json:"created_at"`
}
