package client

// API 端点常量
const (
	// 基础
	EndpointTime   = "/api/v2/time"
	EndpointLimit  = "/api/v2/limit"
	EndpointUSDCNY = "/api/v2/usd-cny"

	// 币种
	EndpointTokens         = "/api/v2/tokens"
	EndpointTokenDetail    = "/api/v2/token/detail"
	EndpointTokensMapped   = "/api/v2/token/mapped"
	EndpointTokensUnmapped = "/api/v2/token/unmapped"

	// 市场
	EndpointMarket     = "/api/v2/market"
	EndpointMarkets    = "/api/v2/markets"
	EndpointTicker24h  = "/api/v2/ticker/24hr"
	EndpointBookTicker = "/api/v2/ticker/bookTicker"
	EndpointTrades     = "/api/v2/trades"
	EndpointTradesAll  = "/api/v2/trades/all"
	EndpointDepth      = "/api/v2/depth"
	EndpointKlines     = "/api/v2/klines"

	// 账户
	EndpointBalance         = "/api/v2/balance"
	EndpointDepositWithdraw = "/api/v2/deposit-withdraw"
	EndpointExchangeRate    = "/api/v2/exchange-rate"
	EndpointTradeFeeInfo    = "/api/v2/trade_fee_info"

	// 订单（GET 查询；POST 下单；DELETE 撤单）
	EndpointOrder     = "/api/v2/order"
	EndpointOrderTest = "/api/v2/order/test"
	EndpointOrders    = "/api/v2/orders"
)
