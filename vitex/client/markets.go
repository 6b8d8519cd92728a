package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitexbot/govitex/vitex/types"
)

// PageQuery 通用分页条件，零值字段不参与请求
type PageQuery struct {
	Offset int
	Limit  int
}

func (q *PageQuery) apply(params map[string]string) {
	if q == nil {
		return
	}
	if q.Offset > 0 {
		params["offset"] = strconv.Itoa(q.Offset)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
}

// GetTradingPair 查询交易对详情（含价格/数量精度与费率）
func (c *Client) GetTradingPair(ctx context.Context, symbol string) (*types.PairDetail, error) {
	params := map[string]string{"symbol": symbol}

	var detail types.PairDetail
	if err := c.getJSON(ctx, EndpointMarket, params, &detail); err != nil {
		return nil, fmt.Errorf("查询交易对 %s 失败: %w", symbol, err)
	}
	return &detail, nil
}

// GetAllTradingPairs 查询全部交易对概要
func (c *Client) GetAllTradingPairs(ctx context.Context, page *PageQuery) ([]types.PairSummary, error) {
	params := map[string]string{}
	page.apply(params)

	var pairs []types.PairSummary
	if err := c.getJSON(ctx, EndpointMarkets, params, &pairs); err != nil {
		return nil, fmt.Errorf("查询交易对列表失败: %w", err)
	}
	return pairs, nil
}

// GetTicker24h 查询 24 小时行情统计；quoteTokenSymbol 为空时返回全部交易对
func (c *Client) GetTicker24h(ctx context.Context, quoteTokenSymbol string) ([]types.TickerStats, error) {
	params := map[string]string{}
	if quoteTokenSymbol != "" {
		params["quoteTokenSymbol"] = quoteTokenSymbol
	}

	var tickers []types.TickerStats
	if err := c.getJSON(ctx, EndpointTicker24h, params, &tickers); err != nil {
		return nil, fmt.Errorf("查询 24h 行情失败: %w", err)
	}
	return tickers, nil
}

// GetTickers 按交易对符号查询 24 小时行情统计
func (c *Client) GetTickers(ctx context.Context, symbols ...string) ([]types.TickerStats, error) {
	params := map[string]string{}
	if len(symbols) > 0 {
		params["symbols"] = strings.Join(symbols, ",")
	}

	var tickers []types.TickerStats
	if err := c.getJSON(ctx, EndpointTicker24h, params, &tickers); err != nil {
		return nil, fmt.Errorf("查询 24h 行情失败: %w", err)
	}
	return tickers, nil
}

// GetBookTicker 查询盘口最优买卖报价
func (c *Client) GetBookTicker(ctx context.Context, symbol string) (*types.BookTicker, error) {
	params := map[string]string{"symbol": symbol}

	var ticker types.BookTicker
	if err := c.getJSON(ctx, EndpointBookTicker, params, &ticker); err != nil {
		return nil, fmt.Errorf("查询盘口报价失败: %w", err)
	}
	return &ticker, nil
}

// GetTradeHistory 查询最近成交；limit 为 0 时使用交易所默认值
func (c *Client) GetTradeHistory(ctx context.Context, symbol string, limit int) ([]types.Trade, error) {
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var trades []types.Trade
	if err := c.getJSON(ctx, EndpointTrades, params, &trades); err != nil {
		return nil, fmt.Errorf("查询成交记录失败: %w", err)
	}
	return trades, nil
}

// TradeQuery 成交明细查询条件
type TradeQuery struct {
	OrderID   string
	Side      *types.Side
	StartTime int64 // 秒
	EndTime   int64 // 秒
	Offset    int
	Limit     int
	Total     bool // 是否返回总数
}

// GetDetailedTradeHistory 查询带费率与区块高度的成交明细
func (c *Client) GetDetailedTradeHistory(ctx context.Context, symbol string, q *TradeQuery) (*types.TradePage, error) {
	params := map[string]string{"symbol": symbol}
	if q != nil {
		if q.OrderID != "" {
			params["orderId"] = q.OrderID
		}
		if q.Side != nil {
			params["side"] = strconv.Itoa(int(*q.Side))
		}
		if q.StartTime > 0 {
			params["startTime"] = strconv.FormatInt(q.StartTime, 10)
		}
		if q.EndTime > 0 {
			params["endTime"] = strconv.FormatInt(q.EndTime, 10)
		}
		if q.Offset > 0 {
			params["offset"] = strconv.Itoa(q.Offset)
		}
		if q.Limit > 0 {
			params["limit"] = strconv.Itoa(q.Limit)
		}
		if q.Total {
			params["total"] = "1"
		}
	}

	var page types.TradePage
	if err := c.getJSON(ctx, EndpointTradesAll, params, &page); err != nil {
		return nil, fmt.Errorf("查询成交明细失败: %w", err)
	}
	return &page, nil
}

// GetDepth 查询盘口深度；limit/precision 为 0 时使用交易所默认值
func (c *Client) GetDepth(ctx context.Context, symbol string, limit, precision int) (*types.Depth, error) {
	params := map[string]string{"symbol": symbol}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if precision > 0 {
		params["precision"] = strconv.Itoa(precision)
	}

	var depth types.Depth
	if err := c.getJSON(ctx, EndpointDepth, params, &depth); err != nil {
		return nil, fmt.Errorf("查询盘口深度失败: %w", err)
	}
	return &depth, nil
}

// KlineQuery K 线查询条件
type KlineQuery struct {
	Limit     int
	StartTime int64 // 秒
	EndTime   int64 // 秒
}

// GetKlines 查询 K 线序列
func (c *Client) GetKlines(ctx context.Context, symbol string, interval types.KlineInterval, q *KlineQuery) (*types.KlineSeries, error) {
	params := map[string]string{
		"symbol":   symbol,
		"interval": string(interval),
	}
	if q != nil {
		if q.Limit > 0 {
			params["limit"] = strconv.Itoa(q.Limit)
		}
		if q.StartTime > 0 {
			params["startTime"] = strconv.FormatInt(q.StartTime, 10)
		}
		if q.EndTime > 0 {
			params["endTime"] = strconv.FormatInt(q.EndTime, 10)
		}
	}

	var series types.KlineSeries
	if err := c.getJSON(ctx, EndpointKlines, params, &series); err != nil {
		return nil, fmt.Errorf("查询 K 线失败: %w", err)
	}
	return &series, nil
}
