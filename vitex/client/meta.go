package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitexbot/govitex/vitex/types"
)

// GetOrderLimit 查询下单最小数量与盘口深度档位限制
func (c *Client) GetOrderLimit(ctx context.Context) (*types.OrderLimit, error) {
	var limit types.OrderLimit
	if err := c.getJSON(ctx, EndpointLimit, nil, &limit); err != nil {
		return nil, fmt.Errorf("查询下单限制失败: %w", err)
	}
	return &limit, nil
}

// GetExchangeRates 按带序号的符号（如 BTC-000）查询法币汇率；不传则返回全部
func (c *Client) GetExchangeRates(ctx context.Context, tokenSymbols ...string) ([]types.ExchangeRate, error) {
	params := map[string]string{}
	if len(tokenSymbols) > 0 {
		params["tokenSymbols"] = strings.Join(tokenSymbols, ",")
	}

	var rates []types.ExchangeRate
	if err := c.getJSON(ctx, EndpointExchangeRate, params, &rates); err != nil {
		return nil, fmt.Errorf("查询汇率失败: %w", err)
	}
	return rates, nil
}

// GetExchangeRatesByID 按链上币种 ID 查询法币汇率
func (c *Client) GetExchangeRatesByID(ctx context.Context, tokenIDs ...string) ([]types.ExchangeRate, error) {
	params := map[string]string{}
	if len(tokenIDs) > 0 {
		params["tokenIds"] = strings.Join(tokenIDs, ",")
	}

	var rates []types.ExchangeRate
	if err := c.getJSON(ctx, EndpointExchangeRate, params, &rates); err != nil {
		return nil, fmt.Errorf("查询汇率失败: %w", err)
	}
	return rates, nil
}

// GetTradeMiningInfo 查询本周期交易挖矿的池子信息
func (c *Client) GetTradeMiningInfo(ctx context.Context) (*types.MiningInfo, error) {
	var info types.MiningInfo
	if err := c.getJSON(ctx, EndpointTradeFeeInfo, nil, &info); err != nil {
		return nil, fmt.Errorf("查询交易挖矿信息失败: %w", err)
	}
	return &info, nil
}

// GetUSDCNYRate 查询美元兑人民币汇率
func (c *Client) GetUSDCNYRate(ctx context.Context) (float64, error) {
	var rate float64
	if err := c.getJSON(ctx, EndpointUSDCNY, nil, &rate); err != nil {
		return 0, fmt.Errorf("查询美元汇率失败: %w", err)
	}
	return rate, nil
}
