package dto

// ProductDTO is the JSON form of the admin product editor. Multipart
// submissions go through forms.DecodeProduct instead.
type ProductDTO struct {
	Name        string   `json:"name" binding:"required,min=3"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Featured    bool     `json:"featured"`
	NewArrival  bool     `json:"newArrival"`
	OnSale      bool     `json:"onSale"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=100"`
	SKU         string   `json:"sku"`
	Brand       string   `json:"brand"`
	Material    string   `json:"material"`
	Weight      string   `json:"weight"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Tags        string   `json:"tags"`
}
