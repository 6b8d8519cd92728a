package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderState 订单在本地生命周期中的阶段
type OrderState int

const (
	OrderStatePrepared OrderState = iota
	OrderStateNormalized
	OrderStateSigned
	OrderStateSubmittedTest
	OrderStateSubmittedLive
	OrderStateAcknowledged
	OrderStateRejected
	OrderStateCancelRequested
	OrderStateCancelled
	OrderStateCancelFailed
)

var orderStateNames = [...]string{
	"Prepared", "Normalized", "Signed", "SubmittedTest", "SubmittedLive",
	"Acknowledged", "Rejected", "CancelRequested", "Cancelled", "CancelFailed",
}

func (s OrderState) String() string {
	if s < 0 || int(s) >= len(orderStateNames) {
		return "Invalid"
	}
	return orderStateNames[s]
}

// Order 交易意图及其提交结果的领域对象。
// Pair/Side/Amount/Price 在构造时完成全部本地校验；构造之后仅精度归一化
// （Quantize）允许改写数量与价格。网络结果相关字段只能由交易流程
// （vitex/client 的下单/撤单方法）通过 Mark* 方法写入。
type Order struct {
	pair   TradingPair
	side   Side
	amount decimal.Decimal
	price  decimal.Decimal

	// 归一化后的定点文本，签名与传输使用
	amountText string
	priceText  string

	precision Precision
	state     OrderState

	// Meta 交易所回传的原始订单细节
	Meta map[string]any

	signedPayload   string
	networkResponse json.RawMessage
	rejectReason    string
	statusLabel     string
}

// NewOrder 校验并构造待提交订单（Prepared 状态）。
// side/amount/price 接受宽松输入；任何非法字段都立即失败，不发起网络请求。
func NewOrder(pair string, side, amount, price any) (*Order, error) {
	tp, err := NewTradingPair(pair)
	if err != nil {
		return nil, err
	}
	s, err := ParseSide(side)
	if err != nil {
		return nil, err
	}
	amt, err := ParseQuantity("amount", amount)
	if err != nil {
		return nil, err
	}
	prc, err := ParseQuantity("price", price)
	if err != nil {
		return nil, err
	}
	return &Order{
		pair:       tp,
		side:       s,
		amount:     amt,
		price:      prc,
		amountText: amt.String(),
		priceText:  prc.String(),
		state:      OrderStatePrepared,
	}, nil
}

// ParseQuantity 把宽松数值输入解析为严格大于零的十进制数。
// 非数值或非正值一律拒绝。
func ParseQuantity(field string, v any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case decimal.Decimal:
		d = val
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Decimal{}, &ValidationError{Field: field, Value: v, Msg: "无法解析为十进制数"}
		}
		d = parsed
	case int:
		d = decimal.NewFromInt(int64(val))
	case int32:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case float32:
		d = decimal.NewFromFloat32(val)
	case float64:
		d = decimal.NewFromFloat(val)
	default:
		return decimal.Decimal{}, &ValidationError{Field: field, Value: v, Msg: "不支持的数值类型"}
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: v, Msg: "必须大于 0"}
	}
	return d, nil
}

// Pair 交易对
func (o *Order) Pair() TradingPair { return o.pair }

// Side 订单方向
func (o *Order) Side() Side { return o.side }

// Amount 数量（精度归一化后为舍入值）
func (o *Order) Amount() decimal.Decimal { return o.amount }

// Price 价格（精度归一化后为舍入值）
func (o *Order) Price() decimal.Decimal { return o.price }

// AmountText 传输用的数量文本
func (o *Order) AmountText() string { return o.amountText }

// PriceText 传输用的价格文本
func (o *Order) PriceText() string { return o.priceText }

// State 当前生命周期状态
func (o *Order) State() OrderState { return o.state }

// Precision 最近一次归一化使用的精度
func (o *Order) Precision() Precision { return o.precision }

// SignedPayload 最近一次签名生成的完整传输载荷（审计用）
func (o *Order) SignedPayload() string { return o.signedPayload }

// NetworkResponse 最近一次提交的归一化回执；提交完成前为空
func (o *Order) NetworkResponse() json.RawMessage { return o.networkResponse }

// RejectReason 拒绝原因（本地校验、未签名或交易所错误文案）
func (o *Order) RejectReason() string { return o.rejectReason }

// StatusLabel 交易所状态码翻译出的可读标签
func (o *Order) StatusLabel() string { return o.statusLabel }

// OrderID 交易所回执中的订单号，尚未确认时为空
func (o *Order) OrderID() string {
	if len(o.networkResponse) == 0 {
		return ""
	}
	var r OrderReceipt
	if err := json.Unmarshal(o.networkResponse, &r); err != nil {
		return ""
	}
	return r.OrderID
}

// Params 生成下单请求参数（symbol/side/price/amount）
func (o *Order) Params() map[string]string {
	return map[string]string{
		"symbol": o.pair.Symbol,
		"side":   strconv.Itoa(int(o.side)),
		"price":  o.priceText,
		"amount": o.amountText,
	}
}

// Quantize 按交易对精度把数量/价格舍入为定点小数（银行家舍入），
// 并重渲染为不带科学计数法的定点文本。这是构造之后唯一允许改写
// amount/price 的步骤，只影响小数位，不改变符号与数量级。
func (o *Order) Quantize(prec Precision) {
	o.amount = o.amount.RoundBank(prec.Amount)
	o.price = o.price.RoundBank(prec.Price)
	o.amountText = o.amount.StringFixed(prec.Amount)
	o.priceText = o.price.StringFixed(prec.Price)
	o.precision = prec
	if o.state == OrderStatePrepared {
		o.state = OrderStateNormalized
	}
}

// MarkSigned 记录签名载荷并进入 Signed 状态（仅交易流程调用）
func (o *Order) MarkSigned(payload string) {
	o.signedPayload = payload
	o.state = OrderStateSigned
}

// MarkSubmitted 进入已提交状态（仅交易流程调用）
func (o *Order) MarkSubmitted(test bool) {
	if test {
		o.state = OrderStateSubmittedTest
	} else {
		o.state = OrderStateSubmittedLive
	}
}

// MarkAcknowledged 记录成功回执与翻译后的状态标签（仅交易流程调用）
func (o *Order) MarkAcknowledged(raw json.RawMessage, statusLabel string) {
	o.networkResponse = raw
	o.statusLabel = statusLabel
	o.state = OrderStateAcknowledged
}

// MarkRejected 记录拒绝原因，订单进入终态（仅交易流程调用）
func (o *Order) MarkRejected(reason string, raw json.RawMessage) {
	o.rejectReason = reason
	if raw != nil {
		o.networkResponse = raw
	}
	o.state = OrderStateRejected
}

// MarkCancelRequested 撤单请求已发出（仅交易流程调用）
func (o *Order) MarkCancelRequested() {
	o.state = OrderStateCancelRequested
}

// MarkCancelled 撤单成功（仅交易流程调用）
func (o *Order) MarkCancelled(raw json.RawMessage, statusLabel string) {
	if raw != nil {
		o.networkResponse = raw
	}
	if statusLabel != "" {
		o.statusLabel = statusLabel
	}
	o.state = OrderStateCancelled
}

// MarkCancelFailed 撤单失败（仅交易流程调用）
func (o *Order) MarkCancelFailed(reason string, raw json.RawMessage) {
	o.rejectReason = reason
	if raw != nil {
		o.networkResponse = raw
	}
	o.state = OrderStateCancelFailed
}

// HistoryOrder 已存在订单的轻量投影（撤单等场景），不做完整校验
type HistoryOrder struct {
	Pair TradingPair
	Meta map[string]any
}

// OrderID 投影中的订单号
func (h HistoryOrder) OrderID() string {
	if h.Meta == nil {
		return ""
	}
	if id, ok := h.Meta["orderId"].(string); ok {
		return id
	}
	return ""
}

// OrderReceipt 下单成功回执
type OrderReceipt struct {
	Symbol  string      `json:"symbol"`
	OrderID string      `json:"orderId"`
	Status  OrderStatus `json:"status"`
}

// CancelReceipt 撤单回执
type CancelReceipt struct {
	Symbol        string      `json:"symbol"`
	OrderID       string      `json:"orderId"`
	CancelRequest string      `json:"cancelRequest"`
	Status        OrderStatus `json:"status"`
}

// OrderDetail 订单查询明细（GET /api/v2/order、/api/v2/orders）
type OrderDetail struct {
	Address          string      `json:"address"`
	OrderID          string      `json:"orderId"`
	Symbol           string      `json:"symbol"`
	TradeTokenSymbol string      `json:"tradeTokenSymbol"`
	QuoteTokenSymbol string      `json:"quoteTokenSymbol"`
	TradeToken       string      `json:"tradeToken"`
	QuoteToken       string      `json:"quoteToken"`
	Side             Side        `json:"side"`
	Price            string      `json:"price"`
	Quantity         string      `json:"quantity"`
	Amount           string      `json:"amount"`
	ExecutedQuantity string      `json:"executedQuantity"`
	ExecutedAmount   string      `json:"executedAmount"`
	ExecutedPercent  string      `json:"executedPercent"`
	ExecutedAvgPrice string      `json:"executedAvgPrice"`
	Fee              string      `json:"fee"`
	Status           OrderStatus `json:"status"`
	Type             int         `json:"type"`
	CreateTime       int64       `json:"createTime"`
}

// OrderPage 订单查询分页
type OrderPage struct {
	Orders []OrderDetail `json:"order"`
	Total  int           `json:"total"`
}
