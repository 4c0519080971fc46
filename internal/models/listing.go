package models

import (
	"time"

	"github.com/lib/pq"
)

// ListingStatus captures workflow states for customer vehicle submissions.
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

// VehicleCondition enumerates accepted vehicle conditions.
type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "Excellent"
	ConditionGood      VehicleCondition = "Good"
	ConditionFair      VehicleCondition = "Fair"
)

// MaxListingImages bounds the photo set of a single submission.
const MaxListingImages = 5

// VehicleListing stores a customer's vehicle-for-sale submission awaiting review.
type VehicleListing struct {
	ID              string           `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"user_id"`
	Make            string           `db:"make" json:"make"`
	Model           string           `db:"model" json:"model"`
	Year            int              `db:"year" json:"year"`
	BatteryCapacity string           `db:"battery_capacity" json:"battery_capacity"`
	Condition       VehicleCondition `db:"condition" json:"condition"`
	Mileage         int64            `db:"mileage" json:"mileage"`
	Price           float64          `db:"price" json:"price"`
	Color           *string          `db:"color" json:"color,omitempty"`
	Description     *string          `db:"description" json:"description,omitempty"`
	Features        pq.StringArray   `db:"features" json:"features"`
	Images          pq.StringArray   `db:"images" json:"images"`
	ThumbnailURL    *string          `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Status          ListingStatus    `db:"status" json:"status"`
	AdminNotes      *string          `db:"admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy      *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`

	// Profile is attached by the moderation list as a best-effort join and is
	// never persisted with the listing row.
	Profile *CustomerProfile `db:"-" json:"customer_profile,omitempty"`
}

// ListingFilter constrains moderation queue queries.
type ListingFilter struct {
	Status []ListingStatus
	UserID string
	Limit  int
	Offset int
}

// ValidCondition reports whether the value is one of the accepted conditions.
func ValidCondition(c VehicleCondition) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair:
		return true
	}
	return false
}
