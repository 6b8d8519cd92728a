package types

import (
	"fmt"
	"strings"
)

// Side 订单方向（0 买入，1 卖出）
type Side int

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

// Valid 报告方向取值是否合法
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

func (s Side) String() string {
	if s == SideSell {
		return "sell"
	}
	return "buy"
}

// ParseSide 把宽松输入解析为标准订单方向。
// 接受大小写不敏感的 "buy"/"sell"/"0"/"1"；整数和浮点按 0 为买入、
// 其余一律卖出收敛；布尔 true 为卖出。其余输入一律拒绝。
func ParseSide(v any) (Side, error) {
	switch val := v.(type) {
	case Side:
		if !val.Valid() {
			return 0, &ValidationError{Field: "side", Value: v, Msg: "方向取值只能是 0 或 1"}
		}
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "buy", "0":
			return SideBuy, nil
		case "sell", "1":
			return SideSell, nil
		}
		return 0, &ValidationError{Field: "side", Value: v, Msg: "无法解析为订单方向"}
	case bool:
		if val {
			return SideSell, nil
		}
		return SideBuy, nil
	case int:
		return sideFromNumber(float64(val)), nil
	case int32:
		return sideFromNumber(float64(val)), nil
	case int64:
		return sideFromNumber(float64(val)), nil
	case float32:
		return sideFromNumber(float64(val)), nil
	case float64:
		return sideFromNumber(val), nil
	}
	return 0, &ValidationError{Field: "side", Value: v, Msg: "无法解析为订单方向"}
}

func sideFromNumber(f float64) Side {
	if f == 0 {
		return SideBuy
	}
	return SideSell
}

// OrderStatus 交易所订单状态码（0-10）
type OrderStatus int

const (
	StatusUnknown            OrderStatus = 0
	StatusPendingRequest     OrderStatus = 1
	StatusReceived           OrderStatus = 2
	StatusOpen               OrderStatus = 3
	StatusFilled             OrderStatus = 4
	StatusPartiallyFilled    OrderStatus = 5
	StatusPendingCancel      OrderStatus = 6
	StatusCancelled          OrderStatus = 7
	StatusPartiallyCancelled OrderStatus = 8
	StatusFailed             OrderStatus = 9
	StatusExpired            OrderStatus = 10
)

// 状态码对应的可读标签，下标即状态码
var orderStatusLabels = [...]string{
	"Unknown", "PendingRequest", "Received", "Open", "Filled",
	"PartiallyFilled", "PendingCancel", "Cancelled", "PartiallyCancelled",
	"Failed", "Expired",
}

// Label 返回状态码的可读标签。
// 越界状态码是硬错误，绝不静默回落到任何默认标签。
func (s OrderStatus) Label() (string, error) {
	if s < 0 || int(s) >= len(orderStatusLabels) {
		return "", fmt.Errorf("unknown status code: %d", int(s))
	}
	return orderStatusLabels[s], nil
}

// KlineInterval K 线周期
type KlineInterval string

const (
	IntervalMinute   KlineInterval = "minute"
	IntervalMinute30 KlineInterval = "minute30"
	IntervalHour     KlineInterval = "hour"
	IntervalHour6    KlineInterval = "hour6"
	IntervalHour12   KlineInterval = "hour12"
	IntervalDay      KlineInterval = "day"
	IntervalWeek     KlineInterval = "week"
)

// PrecisionSource 精度结果的来源
type PrecisionSource int

const (
	// PrecisionResolved 精度来自交易所元数据查询
	PrecisionResolved PrecisionSource = iota
	// PrecisionDefault 查询失败后回退到默认精度
	PrecisionDefault
)

func (s PrecisionSource) String() string {
	if s == PrecisionResolved {
		return "resolved"
	}
	return "default"
}

// Precision 交易对的数量/价格小数位及其来源
type Precision struct {
	Amount int32
	Price  int32
	Source PrecisionSource
}

// DefaultPrecision 默认 8 位小数（交易所侧仍会做最终校验）
func DefaultPrecision() Precision {
	return Precision{Amount: 8, Price: 8, Source: PrecisionDefault}
}
