package models

import (
	"time"
)

// PriceBar represents OHLCV price data for one period of a symbol's history.
// Bars are chronological and immutable once fetched.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// StockQuote represents the current price of an underlying, with the change
// against the previous daily close.
type StockQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// TopMovers partitions a set of quotes into the day's gainers and losers,
// each ordered by magnitude of the percent change.
type TopMovers struct {
	Gainers []StockQuote `json:"gainers"`
	Losers  []StockQuote `json:"losers"`
}

// MarketStatus reports whether the market is open and the next session bounds.
type MarketStatus struct {
	Status    string    `json:"status"` // "open" or "closed"
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}
