package models

import "time"

// SEOSettings stores per-page meta tags managed from the admin dashboard.
type SEOSettings struct {
	ID              string    `db:"id" json:"id"`
	PageType        string    `db:"page_type" json:"page_type"`
	MetaTitle       string    `db:"meta_title" json:"meta_title"`
	MetaDescription string    `db:"meta_description" json:"meta_description"`
	MetaKeywords    string    `db:"meta_keywords" json:"meta_keywords"`
	OGTitle         string    `db:"og_title" json:"og_title"`
	OGDescription   string    `db:"og_description" json:"og_description"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
