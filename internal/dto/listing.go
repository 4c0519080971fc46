package dto

import "github.com/voltride-motors/dealership-api/internal/models"

// CreateListingRequest carries the multipart form fields of a customer
// vehicle submission. Images travel separately as file parts.
type CreateListingRequest struct {
	Make            string   `form:"make"`
	Model           string   `form:"model"`
	Year            int      `form:"year"`
	BatteryCapacity string   `form:"battery_capacity"`
	Condition       string   `form:"condition"`
	Mileage         int64    `form:"mileage"`
	Price           float64  `form:"price"`
	Color           string   `form:"color"`
	Description     string   `form:"description"`
	Features        []string `form:"features"`
}

// RejectListingRequest carries the moderation notes shown to the submitter.
type RejectListingRequest struct {
	Notes string `json:"notes"`
}

// ListingQuery mirrors supported moderation queue filters.
type ListingQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ApproveListingResponse reports both sides of a successful publication.
type ApproveListingResponse struct {
	Listing *models.VehicleListing `json:"listing"`
	Vehicle *models.Vehicle        `json:"vehicle"`
}
