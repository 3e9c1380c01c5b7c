package models

import "time"

// AlertType is the severity of a system alert
type AlertType string

const (
	AlertTypeInfo          AlertType = "INFO"
	AlertTypeInconsistency AlertType = "INCONSISTENCY"
	AlertTypeCritical      AlertType = "CRITICAL"
)

// SystemAlert is an operational notice for administrators. ReferenceID is
// the deduplication key: at most one alert exists per referenced entity.
type SystemAlert struct {
	ID          string    `db:"id"`
	Type        AlertType `db:"type"`
	Message     string    `db:"message"`
	ReferenceID *string   `db:"reference_id"`
	Fixed       bool      `db:"fixed"`
	CreatedAt   time.Time `db:"created_at"`
}
