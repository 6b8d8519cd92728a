package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/vitexbot/govitex/vitex/signing"
	"github.com/vitexbot/govitex/vitex/types"
)

// exchangeStub 本地交易所桩：固定服务器时间与精度，记录交易请求
type exchangeStub struct {
	t *testing.T

	serverTime  string
	orderReply  string // POST /order、/order/test 的完整响应
	cancelReply string // DELETE /order 的完整响应
	batchReply  string // DELETE /orders 的完整响应

	mu        sync.Mutex
	requests  int
	lastPath  string
	lastBody  string
	postCalls int
}

func newExchangeStub(t *testing.T) *exchangeStub {
	return &exchangeStub{
		t:           t,
		serverTime:  "1630000000000",
		orderReply:  `{"code":0,"msg":"ok","data":{"symbol":"EPIC-002_BTC-000","orderId":"oid-123","status":2}}`,
		cancelReply: `{"code":0,"msg":"ok","data":{"symbol":"EPIC-002_BTC-000","orderId":"oid-123","cancelRequest":"creq-9","status":6}}`,
		batchReply:  `{"code":0,"msg":"ok","data":[{"symbol":"VX_BTC-000","orderId":"a","cancelRequest":"ra","status":6},{"symbol":"VX_BTC-000","orderId":"b","cancelRequest":"rb","status":6}]}`,
	}
}

func (s *exchangeStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == EndpointTime:
		writeData(w, s.serverTime)
	case r.Method == http.MethodGet && r.URL.Path == EndpointMarket:
		writeData(w, fmt.Sprintf(`{"symbol":%q,"amountPrecision":8,"pricePrecision":8}`,
			r.URL.Query().Get("symbol")))
	case r.Method == http.MethodPost && (r.URL.Path == EndpointOrder || r.URL.Path == EndpointOrderTest):
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			s.t.Errorf("Content-Type got=%q", ct)
		}
		s.record(r, true)
		io.WriteString(w, s.orderReply)
	case r.Method == http.MethodDelete && r.URL.Path == EndpointOrder:
		s.record(r, false)
		io.WriteString(w, s.cancelReply)
	case r.Method == http.MethodDelete && r.URL.Path == EndpointOrders:
		s.record(r, false)
		io.WriteString(w, s.batchReply)
	default:
		s.t.Errorf("未预期的请求: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}
}

func (s *exchangeStub) record(r *http.Request, post bool) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPath = r.URL.Path
	s.lastBody = string(body)
	if post {
		s.postCalls++
	}
}

func (s *exchangeStub) snapshot() (path, body string, posts, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath, s.lastBody, s.postCalls, s.requests
}

// bodyKeys 按出现顺序提取传输体的键
func bodyKeys(body string) []string {
	parts := strings.Split(body, "&")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		keys = append(keys, strings.SplitN(p, "=", 2)[0])
	}
	return keys
}

// verifySignature 用密钥重算签名并与传输体末尾的 signature 比对
func verifySignature(t *testing.T, secret, body string) {
	t.Helper()
	idx := strings.LastIndex(body, "&signature=")
	if idx < 0 {
		t.Fatalf("传输体缺少签名: %s", body)
	}
	message, sig := body[:idx], body[idx+len("&signature="):]
	if want := signing.HMACSHA256Hex(secret, message); sig != want {
		t.Fatalf("签名不匹配: got=%s want=%s (message=%s)", sig, want, message)
	}
}

func TestExecuteOrderWireFormat(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.AmountText() != "5.00000000" || order.PriceText() != "0.00006000" {
		t.Fatalf("归一化结果不正确: amount=%q price=%q", order.AmountText(), order.PriceText())
	}
	if order.Precision().Source != types.PrecisionResolved {
		t.Errorf("精度来源 got=%v want=resolved", order.Precision().Source)
	}

	if err := c.ExecuteOrder(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, body, _, _ := stub.snapshot()
	if path != EndpointOrder {
		t.Errorf("下单路径 got=%q want=%q", path, EndpointOrder)
	}

	// 键序：规范升序，signature 固定在末尾
	wantKeys := []string{"amount", "key", "price", "side", "symbol", "timestamp", "signature"}
	gotKeys := bodyKeys(body)
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("键数量 got=%v want=%v", gotKeys, wantKeys)
	}
	for i, k := range wantKeys {
		if gotKeys[i] != k {
			t.Fatalf("第 %d 个键 got=%q want=%q (body=%s)", i, gotKeys[i], k, body)
		}
	}

	values, err := url.ParseQuery(body)
	if err != nil {
		t.Fatalf("传输体应为合法表单编码: %v", err)
	}
	want := map[string]string{
		"symbol":    "EPIC-002_BTC-000",
		"side":      "1",
		"amount":    "5.00000000",
		"price":     "0.00006000",
		"key":       "test-key",
		"timestamp": "1630000000000",
	}
	for k, v := range want {
		if got := values.Get(k); got != v {
			t.Errorf("%s got=%q want=%q", k, got, v)
		}
	}
	verifySignature(t, "test-secret", body)

	if order.State() != types.OrderStateAcknowledged {
		t.Errorf("state got=%v want=Acknowledged", order.State())
	}
	if order.OrderID() != "oid-123" {
		t.Errorf("orderId got=%q want=%q", order.OrderID(), "oid-123")
	}
	if order.StatusLabel() != "Received" {
		t.Errorf("status label got=%q want=%q", order.StatusLabel(), "Received")
	}
	if order.SignedPayload() != body {
		t.Errorf("签名载荷应与实际传输体一致:\n%s\n%s", order.SignedPayload(), body)
	}
}

// 测试接口走 /order/test 且不要求回执体
func TestTestOrderEndpoint(t *testing.T) {
	stub := newExchangeStub(t)
	stub.orderReply = `{"code":0,"msg":"ok","data":null}`
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "buy", 1, "0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.TestOrder(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, _, _, _ := stub.snapshot()
	if path != EndpointOrderTest {
		t.Errorf("测试下单路径 got=%q want=%q", path, EndpointOrderTest)
	}
	if order.State() != types.OrderStateAcknowledged {
		t.Errorf("state got=%v want=Acknowledged", order.State())
	}
	if order.OrderID() != "" {
		t.Errorf("测试下单不应有订单号，got=%q", order.OrderID())
	}
}

func TestExecuteOrderExchangeRejection(t *testing.T) {
	stub := newExchangeStub(t)
	stub.orderReply = `{"code":1001,"msg":"order price out of range"}`
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.ExecuteOrder(ctx, order)
	var exErr *types.ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("错误类型应为 ExchangeError，got %T: %v", err, err)
	}
	if exErr.Code != 1001 {
		t.Errorf("code got=%d want=1001", exErr.Code)
	}
	if order.State() != types.OrderStateRejected {
		t.Errorf("state got=%v want=Rejected", order.State())
	}
	if order.RejectReason() != "order price out of range" {
		t.Errorf("reason got=%q", order.RejectReason())
	}
}

// 无 Secret 时订单必须以未签名被拒绝，绝不发出下单请求
func TestExecuteOrderUnsignedRejected(t *testing.T) {
	stub := newExchangeStub(t)
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	c := New(Options{BaseURL: srv.URL, Key: "test-key", Secret: ""})
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.ExecuteOrder(ctx, order)
	var authErr *types.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("错误类型应为 AuthError，got %T: %v", err, err)
	}
	if order.State() != types.OrderStateRejected {
		t.Errorf("state got=%v want=Rejected", order.State())
	}
	if _, _, posts, _ := stub.snapshot(); posts != 0 {
		t.Errorf("未签名请求不应到达交易所，POST 次数=%d", posts)
	}
}

// 本地校验失败在任何网络交互之前发生
func TestPrepareOrderInvalidInputNoNetwork(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)

	cases := []struct {
		pair   string
		side   any
		amount any
		price  any
	}{
		{"EPICBTC", "buy", 1, 1},
		{"EPIC-002_BTC-000", "maybe", 1, 1},
		{"EPIC-002_BTC-000", "buy", 0, 1},
		{"EPIC-002_BTC-000", "buy", 1, -0.5},
	}
	for _, tc := range cases {
		if _, err := c.PrepareOrder(context.Background(), tc.pair, tc.side, tc.amount, tc.price); err == nil {
			t.Errorf("PrepareOrder(%q, %v, %v, %v) 应返回错误", tc.pair, tc.side, tc.amount, tc.price)
		}
	}

	if _, _, _, total := stub.snapshot(); total != 0 {
		t.Errorf("校验失败不应发起任何请求，got=%d 次", total)
	}
}

// 回执中的越界状态码是硬错误
func TestExecuteOrderUnknownStatus(t *testing.T) {
	stub := newExchangeStub(t)
	stub.orderReply = `{"code":0,"msg":"ok","data":{"symbol":"EPIC-002_BTC-000","orderId":"oid-9","status":11}}`
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.ExecuteOrder(ctx, order)
	if err == nil {
		t.Fatal("越界状态码应返回错误")
	}
	if !strings.Contains(err.Error(), "unknown status code: 11") {
		t.Errorf("错误文案 got=%q", err.Error())
	}
	if order.State() != types.OrderStateRejected {
		t.Errorf("state got=%v want=Rejected", order.State())
	}
}

func TestCancelOrder(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)

	h, err := c.CancelOrder(context.Background(), "EPIC-002_BTC-000", "oid-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, body, _, _ := stub.snapshot()
	if path != EndpointOrder {
		t.Errorf("撤单路径 got=%q want=%q", path, EndpointOrder)
	}
	wantKeys := []string{"key", "orderId", "symbol", "timestamp", "signature"}
	gotKeys := bodyKeys(body)
	for i, k := range wantKeys {
		if i >= len(gotKeys) || gotKeys[i] != k {
			t.Fatalf("撤单键序 got=%v want=%v", gotKeys, wantKeys)
		}
	}
	verifySignature(t, "test-secret", body)

	if h.OrderID() != "oid-123" {
		t.Errorf("orderId got=%q want=%q", h.OrderID(), "oid-123")
	}
	if h.Meta["cancelRequest"] != "creq-9" {
		t.Errorf("cancelRequest got=%v", h.Meta["cancelRequest"])
	}
	if h.Meta["status"] != "PendingCancel" {
		t.Errorf("status got=%v want=PendingCancel", h.Meta["status"])
	}
}

func TestCancelOrderValidation(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)

	if _, err := c.CancelOrder(context.Background(), "EPICBTC", "oid"); err == nil {
		t.Error("非法交易对应返回错误")
	}
	if _, err := c.CancelOrder(context.Background(), "VX_BTC-000", ""); err == nil {
		t.Error("空订单号应返回错误")
	}
	if _, _, _, total := stub.snapshot(); total != 0 {
		t.Errorf("校验失败不应发起任何请求，got=%d 次", total)
	}
}

// 完整生命周期：下单受理后撤销
func TestCancelSubmittedLifecycle(t *testing.T) {
	stub := newExchangeStub(t)
	stub.cancelReply = `{"code":0,"msg":"ok","data":{"symbol":"EPIC-002_BTC-000","orderId":"oid-123","cancelRequest":"creq-9","status":7}}`
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.ExecuteOrder(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.CancelSubmitted(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.State() != types.OrderStateCancelled {
		t.Errorf("state got=%v want=Cancelled", order.State())
	}
	if order.StatusLabel() != "Cancelled" {
		t.Errorf("status label got=%q want=%q", order.StatusLabel(), "Cancelled")
	}
}

// 撤销已终结订单：交易所文案改写 + CancelFailed 状态
func TestCancelSubmittedAlreadyTerminated(t *testing.T) {
	stub := newExchangeStub(t)
	stub.cancelReply = `{"code":1,"msg":"The order status has been terminated"}`
	c := newTestClient(t, stub)
	ctx := context.Background()

	order, err := c.PrepareOrder(ctx, "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.ExecuteOrder(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.CancelSubmitted(ctx, order)
	if err == nil {
		t.Fatal("撤销已终结订单应返回错误")
	}
	if !strings.Contains(err.Error(), "Order already canceled") {
		t.Errorf("错误文案应为改写后的固定文本: %v", err)
	}
	if order.State() != types.OrderStateCancelFailed {
		t.Errorf("state got=%v want=CancelFailed", order.State())
	}
}

func TestCancelSubmittedRequiresOrderID(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)

	order, err := c.PrepareOrder(context.Background(), "EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.CancelSubmitted(context.Background(), order)
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("错误类型应为 ValidationError，got %T: %v", err, err)
	}
	if order.State() != types.OrderStateNormalized {
		t.Errorf("未提交订单的状态不应被改写，got=%v", order.State())
	}
}

func TestCancelAllOrders(t *testing.T) {
	stub := newExchangeStub(t)
	c := newTestClient(t, stub)

	orders, err := c.CancelAllOrders(context.Background(), "VX_BTC-000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("撤单数量 got=%d want=2", len(orders))
	}
	if orders[0].OrderID() != "a" || orders[1].OrderID() != "b" {
		t.Errorf("订单号 got=%q,%q", orders[0].OrderID(), orders[1].OrderID())
	}
	for _, o := range orders {
		if o.Meta["status"] != "PendingCancel" {
			t.Errorf("status got=%v want=PendingCancel", o.Meta["status"])
		}
	}

	path, body, _, _ := stub.snapshot()
	if path != EndpointOrders {
		t.Errorf("批量撤单路径 got=%q want=%q", path, EndpointOrders)
	}
	values, err := url.ParseQuery(body)
	if err != nil {
		t.Fatalf("传输体应为合法表单编码: %v", err)
	}
	if got := values.Get("symbol"); got != "VX_BTC-000" {
		t.Errorf("symbol got=%q", got)
	}
	verifySignature(t, "test-secret", body)
}
