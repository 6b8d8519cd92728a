package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vitexbot/govitex/vitex/signing"
	"github.com/vitexbot/govitex/vitex/types"
)

// PrepareOrder 校验并构造订单，随后按交易对精度归一化数量与价格。
// 精度来自 GetTradingPair，查询失败时静默回退到默认精度（8/8），
// 具体来源记录在订单的 Precision 中。本方法不提交任何交易。
func (c *Client) PrepareOrder(ctx context.Context, pair string, side, amount, price any) (*types.Order, error) {
	order, err := types.NewOrder(pair, side, amount, price)
	if err != nil {
		return nil, err
	}
	order.Quantize(c.resolvePrecision(ctx, order.Pair().Symbol))
	return order, nil
}

// ExecuteOrder 签名并向真实下单接口提交订单
func (c *Client) ExecuteOrder(ctx context.Context, order *types.Order) error {
	return c.submitOrder(ctx, order, false)
}

// TestOrder 签名并向测试接口提交订单，不产生真实成交。
// 用于验证参数、签名与连通性。
func (c *Client) TestOrder(ctx context.Context, order *types.Order) error {
	return c.submitOrder(ctx, order, true)
}

func (c *Client) submitOrder(ctx context.Context, order *types.Order, test bool) error {
	signed, err := c.signer.Sign(ctx, signing.Params(order.Params()))
	if err != nil {
		return fmt.Errorf("签名失败: %w", err)
	}
	if !signed.Authenticated() {
		order.MarkRejected("缺少 API Secret，请求未签名", nil)
		return &types.AuthError{Msg: "缺少 API Secret，订单未提交"}
	}
	order.MarkSigned(signed.Encode())

	endpoint := EndpointOrder
	if test {
		endpoint = EndpointOrderTest
	}
	order.MarkSubmitted(test)

	// 传输层错误不写入订单：结果未知，保持已提交状态
	body, err := c.http.postForm(ctx, endpoint, signed.Encode())
	if err != nil {
		return err
	}

	data, err := classify(body, c.echoFn())
	if err != nil {
		var exErr *types.ExchangeError
		if errors.As(err, &exErr) {
			order.MarkRejected(exErr.Msg, nil)
		}
		return err
	}

	var receipt types.OrderReceipt
	if err := json.Unmarshal(data, &receipt); err != nil || receipt.OrderID == "" {
		// 测试接口等场景没有回执体，受理即成功
		order.MarkAcknowledged(data, "")
		cLog.WithFields(logrus.Fields{
			"symbol": order.Pair().Symbol,
			"test":   test,
		}).Info("订单已受理")
		return nil
	}

	label, err := receipt.Status.Label()
	if err != nil {
		order.MarkRejected(err.Error(), data)
		return err
	}
	order.MarkAcknowledged(data, label)

	cLog.WithFields(logrus.Fields{
		"symbol":   receipt.Symbol,
		"order_id": receipt.OrderID,
		"status":   label,
		"test":     test,
	}).Info("订单已受理")
	return nil
}

// CancelOrder 撤销指定交易对下的单笔订单，返回撤单后的订单投影
func (c *Client) CancelOrder(ctx context.Context, pair, orderID string) (*types.HistoryOrder, error) {
	tp, err := types.NewTradingPair(pair)
	if err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, &types.ValidationError{Field: "orderId", Value: orderID, Msg: "不能为空"}
	}

	receipt, label, _, err := c.cancelByID(ctx, tp.Symbol, orderID)
	if err != nil {
		return nil, err
	}
	return &types.HistoryOrder{
		Pair: tp,
		Meta: map[string]any{
			"orderId":       receipt.OrderID,
			"cancelRequest": receipt.CancelRequest,
			"status":        label,
		},
	}, nil
}

// CancelSubmitted 撤销本客户端提交且已受理的订单，并推进其生命周期状态。
// 订单尚未获得交易所订单号时直接拒绝。
func (c *Client) CancelSubmitted(ctx context.Context, order *types.Order) error {
	orderID := order.OrderID()
	if orderID == "" {
		return &types.ValidationError{Field: "orderId", Value: "", Msg: "订单尚未获得交易所订单号"}
	}

	order.MarkCancelRequested()
	_, label, data, err := c.cancelByID(ctx, order.Pair().Symbol, orderID)
	if err != nil {
		order.MarkCancelFailed(err.Error(), nil)
		return err
	}
	order.MarkCancelled(data, label)

	cLog.WithFields(logrus.Fields{
		"symbol":   order.Pair().Symbol,
		"order_id": orderID,
		"status":   label,
	}).Info("订单已撤销")
	return nil
}

// CancelAllOrders 撤销指定交易对下的全部挂单，返回每笔订单的投影
func (c *Client) CancelAllOrders(ctx context.Context, pair string) ([]types.HistoryOrder, error) {
	tp, err := types.NewTradingPair(pair)
	if err != nil {
		return nil, err
	}

	signed, err := c.signer.Sign(ctx, signing.Params{"symbol": tp.Symbol})
	if err != nil {
		return nil, fmt.Errorf("签名失败: %w", err)
	}
	if !signed.Authenticated() {
		return nil, &types.AuthError{Msg: "缺少 API Secret，无法撤单"}
	}

	body, err := c.http.deleteForm(ctx, EndpointOrders, signed.Encode())
	if err != nil {
		return nil, err
	}
	data, err := classify(body, c.echoFn())
	if err != nil {
		return nil, err
	}

	var receipts []types.CancelReceipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		return nil, fmt.Errorf("解析撤单响应失败: %w, 数据: %s", err, data)
	}

	orders := make([]types.HistoryOrder, 0, len(receipts))
	for _, r := range receipts {
		label, err := r.Status.Label()
		if err != nil {
			return nil, err
		}
		orders = append(orders, types.HistoryOrder{
			Pair: tp,
			Meta: map[string]any{
				"orderId":       r.OrderID,
				"cancelRequest": r.CancelRequest,
				"status":        label,
			},
		})
	}

	cLog.WithFields(logrus.Fields{
		"symbol": tp.Symbol,
		"count":  len(orders),
	}).Info("撤销全部挂单完成")
	return orders, nil
}

// cancelByID 撤单公共路径：签名、请求、分类响应并翻译状态标签
func (c *Client) cancelByID(ctx context.Context, symbol, orderID string) (*types.CancelReceipt, string, json.RawMessage, error) {
	signed, err := c.signer.Sign(ctx, signing.Params{
		"symbol":  symbol,
		"orderId": orderID,
	})
	if err != nil {
		return nil, "", nil, fmt.Errorf("签名失败: %w", err)
	}
	if !signed.Authenticated() {
		return nil, "", nil, &types.AuthError{Msg: "缺少 API Secret，无法撤单"}
	}

	body, err := c.http.deleteForm(ctx, EndpointOrder, signed.Encode())
	if err != nil {
		return nil, "", nil, err
	}
	data, err := classify(body, c.echoFn())
	if err != nil {
		return nil, "", nil, err
	}

	var receipt types.CancelReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, "", nil, fmt.Errorf("解析撤单响应失败: %w, 数据: %s", err, data)
	}
	label, err := receipt.Status.Label()
	if err != nil {
		return nil, "", nil, err
	}
	return &receipt, label, data, nil
}
