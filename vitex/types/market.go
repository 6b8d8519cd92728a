package types

import "strings"

// TradingPair 交易对（市场），符号形如 BASE-XXX_QUOTE-XXX。
// 构造后不可变，Detail 元数据允许懒加载补齐。
type TradingPair struct {
	Symbol string
	Base   string // 交易币符号（下划线左侧）
	Quote  string // 计价币符号（下划线右侧）

	// Detail 按需附加的交易对元数据（精度、费率等）
	Detail *PairDetail
}

// NewTradingPair 解析并校验交易对符号。
// 符号必须恰好由一个下划线分隔出非空的交易币与计价币两段。
func NewTradingPair(symbol string) (TradingPair, error) {
	parts := strings.Split(symbol, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TradingPair{}, &ValidationError{
			Field: "symbol",
			Value: symbol,
			Msg:   "交易对符号应形如 BASE-XXX_QUOTE-XXX",
		}
	}
	return TradingPair{Symbol: symbol, Base: parts[0], Quote: parts[1]}, nil
}

// PairDetail 交易对详情（GET /api/v2/market）
type PairDetail struct {
	Symbol              string  `json:"symbol"`
	TradingCurrency     string  `json:"tradingCurrency"`
	QuoteCurrency       string  `json:"quoteCurrency"`
	TradingCurrencyID   string  `json:"tradingCurrencyId"`
	QuoteCurrencyID     string  `json:"quoteCurrencyId"`
	TradingCurrencyName string  `json:"tradingCurrencyName"`
	QuoteCurrencyName   string  `json:"quoteCurrencyName"`
	Operator            string  `json:"operator"`
	OperatorName        string  `json:"operatorName"`
	OperatorLogo        string  `json:"operatorLogo"`
	// 精度字段用指针区分"字段缺失"与合法的 0 精度（整数数量市场）
	PricePrecision      *int32  `json:"pricePrecision"`
	AmountPrecision     *int32  `json:"amountPrecision"`
	MinOrderSize        string  `json:"minOrderSize"`
	OperatorMakerFee    float64 `json:"operatorMakerFee"`
	OperatorTakerFee    float64 `json:"operatorTakerFee"`
	HighPrice           string  `json:"highPrice"`
	LowPrice            string  `json:"lowPrice"`
	LastPrice           string  `json:"lastPrice"`
	Volume              string  `json:"volume"`
	BaseVolume          string  `json:"baseVolume"`
	BidPrice            string  `json:"bidPrice"`
	AskPrice            string  `json:"askPrice"`
	OpenBuyOrders       int     `json:"openBuyOrders"`
	OpenSellOrders      int     `json:"openSellOrders"`
}

// PairSummary 交易对概要（GET /api/v2/markets）
type PairSummary struct {
	Symbol            string `json:"symbol"`
	TradeTokenSymbol  string `json:"tradeTokenSymbol"`
	QuoteTokenSymbol  string `json:"quoteTokenSymbol"`
	TradeToken        string `json:"tradeToken"`
	QuoteToken        string `json:"quoteToken"`
	PricePrecision    int32  `json:"pricePrecision"`
	QuantityPrecision int32  `json:"quantityPrecision"`
}

// TickerStats 24 小时行情统计（GET /api/v2/ticker/24hr）
type TickerStats struct {
	Symbol             string  `json:"symbol"`
	TradeTokenSymbol   string  `json:"tradeTokenSymbol"`
	QuoteTokenSymbol   string  `json:"quoteTokenSymbol"`
	TradeToken         string  `json:"tradeToken"`
	QuoteToken         string  `json:"quoteToken"`
	OpenPrice          string  `json:"openPrice"`
	PrevClosePrice     string  `json:"prevClosePrice"`
	ClosePrice         string  `json:"closePrice"`
	PriceChange        string  `json:"priceChange"`
	PriceChangePercent float64 `json:"priceChangePercent"`
	HighPrice          string  `json:"highPrice"`
	LowPrice           string  `json:"lowPrice"`
	Quantity           string  `json:"quantity"`
	Amount             string  `json:"amount"`
	PricePrecision     int32   `json:"pricePrecision"`
	QuantityPrecision  int32   `json:"quantityPrecision"`
	OpenTime           *int64  `json:"openTime"`
	CloseTime          *int64  `json:"closeTime"`
}

// BookTicker 盘口最优报价（GET /api/v2/ticker/bookTicker）
type BookTicker struct {
	Symbol      string `json:"symbol"`
	BidPrice    string `json:"bidPrice"`
	BidQuantity string `json:"bidQuantity"`
	AskPrice    string `json:"askPrice"`
	AskQuantity string `json:"askQuantity"`
	Height      *int64 `json:"height"`
}

// Trade 成交记录（GET /api/v2/trades）
type Trade struct {
	Timestamp int64  `json:"timestamp"`
	Price     string `json:"price"`
	Amount    string `json:"amount"`
	Side      Side   `json:"side"`
}

// TradeDetail 成交明细（GET /api/v2/trades/all）
type TradeDetail struct {
	TradeID          string `json:"tradeId"`
	Symbol           string `json:"symbol"`
	TradeTokenSymbol string `json:"tradeTokenSymbol"`
	QuoteTokenSymbol string `json:"quoteTokenSymbol"`
	TradeToken       string `json:"tradeToken"`
	QuoteToken       string `json:"quoteToken"`
	Price            string `json:"price"`
	Quantity         string `json:"quantity"`
	Amount           string `json:"amount"`
	Time             int64  `json:"time"`
	Side             Side   `json:"side"`
	BuyFee           string `json:"buyFee"`
	SellFee          string `json:"sellFee"`
	BlockHeight      int64  `json:"blockHeight"`
}

// TradePage 成交明细分页
type TradePage struct {
	Height *int64        `json:"height"`
	Trades []TradeDetail `json:"trade"`
	Total  int           `json:"total"`
}

// Depth 盘口深度（GET /api/v2/depth）。
// 每档为 [价格, 数量] 的字符串对。
type Depth struct {
	Timestamp int64      `json:"timestamp"`
	Asks      [][]string `json:"asks"`
	Bids      [][]string `json:"bids"`
}

// KlineSeries K 线序列（GET /api/v2/klines），各数组按下标对齐
type KlineSeries struct {
	T []int64   `json:"t"` // 开盘时间（秒）
	C []float64 `json:"c"` // 收盘价
	P []float64 `json:"p"` // 开盘价
	H []float64 `json:"h"` // 最高价
	L []float64 `json:"l"` // 最低价
	V []float64 `json:"v"` // 成交量
}

// DepthStepLimit 交易对的深度合并档位范围
type DepthStepLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// OrderLimit 最小下单量与深度档位限制（GET /api/v2/limit）
type OrderLimit struct {
	MinAmount       map[string]string         `json:"minAmount"`
	DepthStepsLimit map[string]DepthStepLimit `json:"depthStepsLimit"`
}
