package models

// Quote is one OHLCV bar as returned by a quote source, ordered by
// timestamp (unix seconds).
type Quote struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// PriceInfo holds the most recently fetched quote history for a symbol.
type PriceInfo struct {
	History []Quote `json:"history"`
}

// Latest returns the newest quote in the history.
func (p PriceInfo) Latest() (Quote, bool) {
	if len(p.History) == 0 {
		return Quote{}, false
	}
	return p.History[len(p.History)-1], true
}

// DailyClose is one closing price per calendar day per symbol. The
// durable price history holds at most one entry per date.
type DailyClose struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// HoldingRecord is a daily valuation of one order. The upsert key is
// (user, symbol, original price, quantity, day); CurrentPrice is the
// only mutable field.
type HoldingRecord struct {
	User          string  `json:"user"`
	Symbol        string  `json:"symbol"`
	Quantity      int64   `json:"quantity"`
	OriginalPrice float64 `json:"original_price"`
	CurrentPrice  float64 `json:"current_price"`
	UpdatedAt     string  `json:"updated_at"`
}
