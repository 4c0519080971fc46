package models

import (
	"time"

	"github.com/lib/pq"
)

// Vehicle is a publicly browsable vehicle-for-sale inventory record. Rows are
// created either by admins directly or by approving a customer listing; once
// created they live independently of the originating submission.
type Vehicle struct {
	ID              string           `db:"id" json:"id"`
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
	ImageURL        *string          `db:"image_url" json:"image_url,omitempty"`
	Available       bool             `db:"available" json:"available"`
	IsFeatured      bool             `db:"is_featured" json:"is_featured"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// VehicleFilter constrains storefront and admin vehicle queries.
type VehicleFilter struct {
	Condition  VehicleCondition
	Available  *bool
	IsFeatured *bool
	Limit      int
	Offset     int
}

// Battery is a battery pack catalog entry.
type Battery struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Capacity       string    `db:"capacity" json:"capacity"`
	Brand          string    `db:"brand" json:"brand"`
	Price          float64   `db:"price" json:"price"`
	Description    *string   `db:"description" json:"description,omitempty"`
	ImageURL       *string   `db:"image_url" json:"image_url,omitempty"`
	InStock        bool      `db:"in_stock" json:"in_stock"`
	WarrantyYears  int       `db:"warranty_years" json:"warranty_years"`
	RangeWithAC    *string   `db:"range_with_ac" json:"range_with_ac,omitempty"`
	RangeWithoutAC *string   `db:"range_without_ac" json:"range_without_ac,omitempty"`
	IsFeatured     bool      `db:"is_featured" json:"is_featured"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// BatteryFilter constrains battery catalog queries.
type BatteryFilter struct {
	InStock    *bool
	IsFeatured *bool
	Limit      int
	Offset     int
}

// Part is a spare-part catalog entry.
type Part struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Category         string         `db:"category" json:"category"`
	Price            float64        `db:"price" json:"price"`
	Description      *string        `db:"description" json:"description,omitempty"`
	ImageURL         *string        `db:"image_url" json:"image_url,omitempty"`
	InStock          bool           `db:"in_stock" json:"in_stock"`
	StockQuantity    int            `db:"stock_quantity" json:"stock_quantity"`
	CompatibleModels pq.StringArray `db:"compatible_models" json:"compatible_models"`
	IsFeatured       bool           `db:"is_featured" json:"is_featured"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// PartFilter constrains part catalog queries.
type PartFilter struct {
	Category   string
	InStock    *bool
	IsFeatured *bool
	Limit      int
	Offset     int
}
