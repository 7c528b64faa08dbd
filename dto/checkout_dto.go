package dto

type ShippingDTO struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Method    string `json:"shippingMethod" binding:"omitempty,oneof=standard express nextDay"`
}

type PaymentDTO struct {
	CardName   string `json:"cardName" binding:"required"`
	CardNumber string `json:"cardNumber" binding:"required,min=12,max=19,numeric"`
	ExpMonth   string `json:"expMonth" binding:"required"`
	ExpYear    string `json:"expYear" binding:"required"`
	CVV        string `json:"cvv" binding:"required,min=3,max=4,numeric"`
}

type BackDTO struct {
	Step string `json:"step" binding:"required,oneof=shipping payment"`
}
