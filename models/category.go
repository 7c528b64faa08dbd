package models

// Category is derived from the catalog; there is no separate category store.
type Category struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	ProductCount int    `json:"productCount"`
	ImageUrl     string `json:"imageUrl,omitempty"`
}
