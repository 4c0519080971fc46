package dto

// CreateVehicleRequest is the admin payload for direct inventory writes.
type CreateVehicleRequest struct {
	Make            string   `json:"make" validate:"required"`
	Model           string   `json:"model" validate:"required"`
	Year            int      `json:"year" validate:"required,min=2008"`
	BatteryCapacity string   `json:"battery_capacity" validate:"required"`
	Condition       string   `json:"condition" validate:"required"`
	Mileage         int64    `json:"mileage" validate:"min=0"`
	Price           float64  `json:"price" validate:"required,min=0"`
	Color           *string  `json:"color"`
	Description     *string  `json:"description"`
	Features        []string `json:"features"`
	Images          []string `json:"images"`
	ImageURL        *string  `json:"image_url"`
	Available       *bool    `json:"available"`
	IsFeatured      *bool    `json:"is_featured"`
}

// UpdateVehicleRequest mirrors CreateVehicleRequest for full-row updates.
type UpdateVehicleRequest = CreateVehicleRequest

// CreateBatteryRequest is the admin payload for battery catalog writes.
type CreateBatteryRequest struct {
	Name           string  `json:"name" validate:"required"`
	Capacity       string  `json:"capacity" validate:"required"`
	Brand          string  `json:"brand"`
	Price          float64 `json:"price" validate:"required,min=0"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url"`
	InStock        *bool   `json:"in_stock"`
	WarrantyYears  int     `json:"warranty_years" validate:"min=0"`
	RangeWithAC    *string `json:"range_with_ac"`
	RangeWithoutAC *string `json:"range_without_ac"`
	IsFeatured     *bool   `json:"is_featured"`
}

// CreatePartRequest is the admin payload for part catalog writes.
type CreatePartRequest struct {
	Name             string   `json:"name" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	Price            float64  `json:"price" validate:"required,min=0"`
	Description      *string  `json:"description"`
	ImageURL         *string  `json:"image_url"`
	InStock          *bool    `json:"in_stock"`
	StockQuantity    int      `json:"stock_quantity" validate:"min=0"`
	CompatibleModels []string `json:"compatible_models"`
	IsFeatured       *bool    `json:"is_featured"`
}

// CreateReviewRequest adds a storefront testimonial.
type CreateReviewRequest struct {
	Kind             string `json:"kind" validate:"required"`
	CustomerName     string `json:"customer_name" validate:"required"`
	Rating           int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText       string `json:"review_text" validate:"required"`
	VerifiedPurchase bool   `json:"verified_purchase"`
}

// UpsertSEORequest writes per-page meta tags.
type UpsertSEORequest struct {
	PageType        string `json:"page_type" validate:"required"`
	MetaTitle       string `json:"meta_title" validate:"required"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`
}

// UpdateProfileRequest edits the caller's contact details.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	Phone    string  `json:"phone" validate:"omitempty,min=6"`
	Address  *string `json:"address"`
}

// SetFeaturedRequest toggles the featured flag on a catalog item.
type SetFeaturedRequest struct {
	Featured bool `json:"featured"`
}
