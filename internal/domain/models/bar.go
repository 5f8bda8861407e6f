package models

import (
	"sort"
	"time"
)

// Bar is one daily OHLCV observation for a ticker. Immutable once retrieved.
type Bar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// SortBarsByDate sorts bars ascending by date in place. Every downstream
// computation requires ascending order; sources are not trusted to provide it.
func SortBarsByDate(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

// Quote is a single live price observation from a market stream.
type Quote struct {
	Ticker    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
