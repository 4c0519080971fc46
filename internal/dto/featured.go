package dto

// FeaturedProduct is the homepage carousel item composed from the three
// catalog tables.
type FeaturedProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}
