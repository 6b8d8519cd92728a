package types

// Token 币种概要（GET /api/v2/tokens 等）
type Token struct {
	TokenID        string `json:"tokenId"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	OriginalSymbol string `json:"originalSymbol"`
	TotalSupply    string `json:"totalSupply"`
	Owner          string `json:"owner"`
	TokenDecimals  int    `json:"tokenDecimals"`
	URLIcon        string `json:"urlIcon"`
}

// MappedToken 跨链映射币信息
type MappedToken struct {
	Symbol       string  `json:"symbol"`
	Name         *string `json:"name"`
	TokenCode    string  `json:"tokenCode"`
	Platform     string  `json:"platform"`
	TokenAddress *string `json:"tokenAddress"`
	Standard     string  `json:"standard"`
	TokenIndex   *int    `json:"tokenIndex"`
	URL          string  `json:"url"`
	Icon         string  `json:"icon"`
	Decimal      int     `json:"decimal"`
}

// Gateway 跨链网关信息
type Gateway struct {
	Name           string              `json:"name"`
	Icon           string              `json:"icon"`
	Policy         map[string]string   `json:"policy"`
	Overview       map[string]string   `json:"overview"`
	Links          map[string][]string `json:"links"`
	Support        string              `json:"support"`
	ServiceSupport string              `json:"serviceSupport"`
	IsOfficial     bool                `json:"isOfficial"`
	Level          int                 `json:"level"`
	Website        string              `json:"website"`
	MappedToken    *MappedToken        `json:"mappedToken"`
	URL            string              `json:"url"`
}

// TokenDetail 币种详情（GET /api/v2/token/detail）
type TokenDetail struct {
	TokenID        string              `json:"tokenId"`
	Name           string              `json:"name"`
	Symbol         string              `json:"symbol"`
	OriginalSymbol string              `json:"originalSymbol"`
	TotalSupply    string              `json:"totalSupply"`
	Publisher      string              `json:"publisher"`
	TokenDecimals  int                 `json:"tokenDecimals"`
	TokenAccuracy  string              `json:"tokenAccuracy"`
	PublisherDate  *int64              `json:"publisherDate"`
	Reissue        int                 `json:"reissue"`
	URLIcon        string              `json:"urlIcon"`
	Gateway        *Gateway            `json:"gateway"`
	Links          map[string][]string `json:"links"`
	Overview       map[string]string   `json:"overview"`
}

// TokenBalance 交易所钱包中单个币种的余额（GET /api/v2/balance）
type TokenBalance struct {
	Available string `json:"available"`
	Locked    string `json:"locked"`
}

// DepositWithdrawal 充提记录（GET /api/v2/deposit-withdraw）。
// Type：1 充值，2 提现。
type DepositWithdrawal struct {
	Time        int64  `json:"time"`
	TokenSymbol string `json:"tokenSymbol"`
	Amount      string `json:"amount"`
	Type        int    `json:"type"`
}

// DepositWithdrawPage 充提记录分页
type DepositWithdrawPage struct {
	Records []DepositWithdrawal `json:"record"`
	Total   int                 `json:"total"`
}

// ExchangeRate 币种法币汇率（GET /api/v2/exchange-rate）
type ExchangeRate struct {
	TokenID     string  `json:"tokenId"`
	TokenSymbol string  `json:"tokenSymbol"`
	USDRate     float64 `json:"usdRate"`
	CNYRate     float64 `json:"cnyRate"`
}

// MiningInfo 当期交易挖矿池与实时费用（GET /api/v2/trade_fee_info）
type MiningInfo struct {
	TradePoolVx  map[string]string `json:"tradePoolVx"`
	TradePoolFee map[string]string `json:"tradePoolFee"`
}
