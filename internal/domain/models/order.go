package models

// Order is a single buy/sell entry in a user's ledger. Orders are
// immutable once appended; identity is structural, there is no
// surrogate id.
type Order struct {
	User   string  `json:"user"`
	Symbol string  `json:"symbol"`
	Amount int64   `json:"amount"`
	Price  float64 `json:"price"`
}
