package client

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vitexbot/govitex/vitex/types"
)

// resolvePrecision 查询交易对的数量/价格精度。
// 任何失败（网络错误、字段缺失）都静默回退到默认 8 位：交易所侧
// 还会做最终校验，这里刻意采取尽力而为策略。
// 查询成功的精度会缓存一段时间；回退结果不缓存，下次调用重新查询。
func (c *Client) resolvePrecision(ctx context.Context, symbol string) types.Precision {
	if prec, ok := c.precCache.Get(symbol); ok {
		return prec
	}

	detail, err := c.GetTradingPair(ctx, symbol)
	if err != nil {
		cLog.WithError(err).Debugf("精度查询失败，回退默认精度: %s", symbol)
		return types.DefaultPrecision()
	}
	// 精度字段缺失或为负同样按查询失败处理；0 是合法精度（整数数量市场）
	if detail.AmountPrecision == nil || detail.PricePrecision == nil ||
		*detail.AmountPrecision < 0 || *detail.PricePrecision < 0 {
		return types.DefaultPrecision()
	}

	prec := types.Precision{
		Amount: *detail.AmountPrecision,
		Price:  *detail.PricePrecision,
		Source: types.PrecisionResolved,
	}
	c.precCache.Set(symbol, prec, 0)
	return prec
}

// NormalizeOrderParams 把参数中的 amount/price 归一化为交易对精度下的
// 定点文本（银行家舍入，不用科学计数法）。amount 或 price 缺失时原样
// 返回；无法解析的数值保留原文本，交由交易所校验。其余字段不动。
func (c *Client) NormalizeOrderParams(ctx context.Context, params map[string]string) map[string]string {
	amount, price := params["amount"], params["price"]
	if amount == "" || price == "" {
		return params
	}

	prec := c.resolvePrecision(ctx, params["symbol"])

	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	if d, err := decimal.NewFromString(amount); err == nil {
		out["amount"] = d.RoundBank(prec.Amount).StringFixed(prec.Amount)
	}
	if d, err := decimal.NewFromString(price); err == nil {
		out["price"] = d.RoundBank(prec.Price).StringFixed(prec.Price)
	}
	return out
}
