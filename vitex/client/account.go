package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vitexbot/govitex/vitex/types"
)

// GetOrder 按下单地址与订单号查询单笔订单
func (c *Client) GetOrder(ctx context.Context, address, orderID string) (*types.OrderDetail, error) {
	params := map[string]string{
		"address": address,
		"orderId": orderID,
	}

	var detail types.OrderDetail
	if err := c.getJSON(ctx, EndpointOrder, params, &detail); err != nil {
		return nil, fmt.Errorf("查询订单 %s 失败: %w", orderID, err)
	}
	return &detail, nil
}

// OrderQuery 订单列表查询条件
type OrderQuery struct {
	Symbol           string
	QuoteTokenSymbol string
	TradeTokenSymbol string
	StartTime        int64 // 秒
	EndTime          int64 // 秒
	Side             *types.Side
	Status           *types.OrderStatus
	Offset           int
	Limit            int
	Total            bool // 是否返回总数
}

// GetOrders 查询地址名下的订单列表
func (c *Client) GetOrders(ctx context.Context, address string, q *OrderQuery) (*types.OrderPage, error) {
	params := map[string]string{"address": address}
	if q != nil {
		if q.Symbol != "" {
			params["symbol"] = q.Symbol
		}
		if q.QuoteTokenSymbol != "" {
			params["quoteTokenSymbol"] = q.QuoteTokenSymbol
		}
		if q.TradeTokenSymbol != "" {
			params["tradeTokenSymbol"] = q.TradeTokenSymbol
		}
		if q.StartTime > 0 {
			params["startTime"] = strconv.FormatInt(q.StartTime, 10)
		}
		if q.EndTime > 0 {
			params["endTime"] = strconv.FormatInt(q.EndTime, 10)
		}
		if q.Side != nil {
			params["side"] = strconv.Itoa(int(*q.Side))
		}
		if q.Status != nil {
			params["status"] = strconv.Itoa(int(*q.Status))
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

	var page types.OrderPage
	if err := c.getJSON(ctx, EndpointOrders, params, &page); err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return &page, nil
}

// GetBalance 查询地址的交易所账户余额，键为币种 ID
func (c *Client) GetBalance(ctx context.Context, address string) (map[string]types.TokenBalance, error) {
	params := map[string]string{"address": address}

	balances := map[string]types.TokenBalance{}
	if err := c.getJSON(ctx, EndpointBalance, params, &balances); err != nil {
		return nil, fmt.Errorf("查询账户余额失败: %w", err)
	}
	return balances, nil
}

// GetDepositWithdrawals 查询指定币种的充提记录
func (c *Client) GetDepositWithdrawals(ctx context.Context, address, tokenID string, page *PageQuery) (*types.DepositWithdrawPage, error) {
	params := map[string]string{
		"address": address,
		"tokenId": tokenID,
	}
	page.apply(params)

	var records types.DepositWithdrawPage
	if err := c.getJSON(ctx, EndpointDepositWithdraw, params, &records); err != nil {
		return nil, fmt.Errorf("查询充提记录失败: %w", err)
	}
	return &records, nil
}
