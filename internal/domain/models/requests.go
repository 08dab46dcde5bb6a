package models

// OrderRequest is the inbound payload for adding an order.
type OrderRequest struct {
	User   string  `json:"user" validate:"required"`
	Symbol string  `json:"symbol" validate:"required"`
	Amount int64   `json:"amount" validate:"required"`
	Price  float64 `json:"price" validate:"required,gt=0"`
}

// ToOrder converts the request into a ledger order.
func (r OrderRequest) ToOrder() Order {
	return Order{User: r.User, Symbol: r.Symbol, Amount: r.Amount, Price: r.Price}
}
