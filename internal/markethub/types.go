package markethub

import "time"

type CollectorRun struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	OK         *bool      `json:"ok,omitempty"`
	Error      *string    `json:"error,omitempty"`
	MetaJSON   *string    `json:"meta_json,omitempty"`
}

// TickerSnapshot 单个交易对的 24h 行情快照。价格沿用交易所返回的十进制字符串，避免精度损失。
type TickerSnapshot struct {
	RunID              string    `json:"run_id"`
	Symbol             string    `json:"symbol"`
	OpenPrice          string    `json:"open_price"`
	ClosePrice         string    `json:"close_price"`
	HighPrice          string    `json:"high_price"`
	LowPrice           string    `json:"low_price"`
	PriceChange        string    `json:"price_change"`
	PriceChangePercent float64   `json:"price_change_percent"`
	Quantity           string    `json:"quantity"`
	Amount             string    `json:"amount"`
	TS                 time.Time `json:"ts"`
}

// BookSnapshot 单个交易对的盘口最优报价快照
type BookSnapshot struct {
	RunID       string    `json:"run_id"`
	Symbol      string    `json:"symbol"`
	BidPrice    string    `json:"bid_price"`
	BidQuantity string    `json:"bid_quantity"`
	AskPrice    string    `json:"ask_price"`
	AskQuantity string    `json:"ask_quantity"`
	TS          time.Time `json:"ts"`
}
