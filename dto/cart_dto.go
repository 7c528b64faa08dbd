package dto

type AddToCartDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateQuantityDTO struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type WishlistDTO struct {
	ProductID string `json:"productId" binding:"required"`
}
