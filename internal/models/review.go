package models

import "time"

// ReviewKind discriminates which storefront surface a review belongs to.
type ReviewKind string

const (
	ReviewKindBattery ReviewKind = "battery"
	ReviewKindVehicle ReviewKind = "vehicle"
	ReviewKindPart    ReviewKind = "part"
	ReviewKindHome    ReviewKind = "home"
)

// Review is a customer testimonial shown on storefront pages.
type Review struct {
	ID               string     `db:"id" json:"id"`
	Kind             ReviewKind `db:"kind" json:"kind"`
	CustomerName     string     `db:"customer_name" json:"customer_name"`
	Rating           int        `db:"rating" json:"rating"`
	ReviewText       string     `db:"review_text" json:"review_text"`
	ReviewDate       time.Time  `db:"review_date" json:"review_date"`
	VerifiedPurchase bool       `db:"verified_purchase" json:"verified_purchase"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// ValidReviewKind reports whether the value names a known review surface.
func ValidReviewKind(k ReviewKind) bool {
	switch k {
	case ReviewKindBattery, ReviewKindVehicle, ReviewKindPart, ReviewKindHome:
		return true
	}
	return false
}
