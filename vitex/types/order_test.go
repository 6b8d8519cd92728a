package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTradingPair(t *testing.T) {
	tp, err := NewTradingPair("EPIC-002_BTC-000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Symbol != "EPIC-002_BTC-000" || tp.Base != "EPIC-002" || tp.Quote != "BTC-000" {
		t.Fatalf("解析结果不正确: %+v", tp)
	}

	bad := []string{"", "EPICBTC", "EPIC_BTC_USD", "_BTC-000", "EPIC-002_", "_"}
	for _, symbol := range bad {
		if _, err := NewTradingPair(symbol); err == nil {
			t.Errorf("NewTradingPair(%q) 应返回错误", symbol)
		}
	}
}

func TestNewOrderValid(t *testing.T) {
	order, err := NewOrder("EPIC-002_BTC-000", "sell", "5", 0.00006)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.State() != OrderStatePrepared {
		t.Errorf("初始状态 got=%v want=Prepared", order.State())
	}
	if order.Side() != SideSell {
		t.Errorf("side got=%v want=sell", order.Side())
	}
	if order.Pair().Quote != "BTC-000" {
		t.Errorf("quote got=%q want=BTC-000", order.Pair().Quote)
	}
	if order.AmountText() != "5" {
		t.Errorf("归一化前数量文本 got=%q want=%q", order.AmountText(), "5")
	}
}

func TestNewOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		pair   string
		side   any
		amount any
		price  any
		field  string
	}{
		{"缺少下划线", "EPICBTC", "buy", 1, 1, "symbol"},
		{"两个下划线", "A_B_C", "buy", 1, 1, "symbol"},
		{"方向非法", "VX_BTC-000", "maybe", 1, 1, "side"},
		{"数量为零", "VX_BTC-000", "buy", 0, 1, "amount"},
		{"数量为负", "VX_BTC-000", "buy", -3, 1, "amount"},
		{"价格为零", "VX_BTC-000", "buy", 1, "0", "price"},
		{"价格非数值", "VX_BTC-000", "buy", 1, "abc", "price"},
		{"价格类型不支持", "VX_BTC-000", "buy", 1, struct{}{}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.pair, tc.side, tc.amount, tc.price)
			if err == nil {
				t.Fatal("应返回校验错误")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("错误类型应为 ValidationError，got %T: %v", err, err)
			}
			if verr.Field != tc.field {
				t.Errorf("出错字段 got=%q want=%q", verr.Field, tc.field)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	d, err := ParseQuantity("amount", decimal.RequireFromString("1.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("decimal 透传 got=%s", d)
	}

	d, err = ParseQuantity("price", "6e-5")
	if err != nil {
		t.Fatalf("科学计数法应可解析: %v", err)
	}
	if !d.Equal(decimal.RequireFromString("0.00006")) {
		t.Errorf("6e-5 got=%s want=0.00006", d)
	}

	if _, err := ParseQuantity("amount", int64(0)); err == nil {
		t.Error("零值应被拒绝")
	}
	if _, err := ParseQuantity("amount", float64(-0.1)); err == nil {
		t.Error("负值应被拒绝")
	}
}

func TestQuantize(t *testing.T) {
	order, err := NewOrder("EPIC-002_BTC-000", 1, "5", "0.000059999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prec := Precision{Amount: 8, Price: 8, Source: PrecisionResolved}
	order.Quantize(prec)

	if order.AmountText() != "5.00000000" {
		t.Errorf("amount got=%q want=%q", order.AmountText(), "5.00000000")
	}
	if order.PriceText() != "0.00006000" {
		t.Errorf("price got=%q want=%q", order.PriceText(), "0.00006000")
	}
	if order.State() != OrderStateNormalized {
		t.Errorf("归一化后状态 got=%v want=Normalized", order.State())
	}
	if order.Precision() != prec {
		t.Errorf("记录的精度 got=%+v want=%+v", order.Precision(), prec)
	}
}

// 银行家舍入：恰好一半时向偶数收敛
func TestQuantizeBankersRounding(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"2.125", "2.12"},
		{"2.135", "2.14"},
		{"2.145", "2.14"},
		{"2.155", "2.16"},
	}
	for _, tc := range cases {
		order, err := NewOrder("VX_BTC-000", "buy", tc.amount, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		order.Quantize(Precision{Amount: 2, Price: 2, Source: PrecisionResolved})
		if got := order.AmountText(); got != tc.want {
			t.Errorf("RoundBank(%s) got=%q want=%q", tc.amount, got, tc.want)
		}
	}
}

// 科学计数法输入必须渲染为定点文本
func TestQuantizeScientificNotation(t *testing.T) {
	order, err := NewOrder("EPIC-002_BTC-000", "sell", 5, "6e-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.Quantize(DefaultPrecision())

	if order.PriceText() != "0.00006000" {
		t.Errorf("price got=%q want=%q", order.PriceText(), "0.00006000")
	}
}

func TestOrderParams(t *testing.T) {
	order, err := NewOrder("EPIC-002_BTC-000", "sell", "5", "0.00006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.Quantize(DefaultPrecision())

	params := order.Params()
	want := map[string]string{
		"symbol": "EPIC-002_BTC-000",
		"side":   "1",
		"amount": "5.00000000",
		"price":  "0.00006000",
	}
	if len(params) != len(want) {
		t.Fatalf("参数个数 got=%d want=%d: %v", len(params), len(want), params)
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%q] got=%q want=%q", k, params[k], v)
		}
	}
}

func TestOrderLifecycle(t *testing.T) {
	order, err := NewOrder("VX_BTC-000", "buy", 1, "0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderID() != "" {
		t.Error("受理前订单号应为空")
	}

	order.Quantize(DefaultPrecision())
	order.MarkSigned("amount=1.00000000&key=k&price=0.50000000&side=0&symbol=VX_BTC-000&timestamp=1&signature=sig")
	if order.State() != OrderStateSigned {
		t.Fatalf("state got=%v want=Signed", order.State())
	}
	if order.SignedPayload() == "" {
		t.Error("签名载荷应被记录")
	}

	order.MarkSubmitted(false)
	if order.State() != OrderStateSubmittedLive {
		t.Fatalf("state got=%v want=SubmittedLive", order.State())
	}

	raw := json.RawMessage(`{"symbol":"VX_BTC-000","orderId":"oid-1","status":2}`)
	order.MarkAcknowledged(raw, "Received")
	if order.State() != OrderStateAcknowledged {
		t.Fatalf("state got=%v want=Acknowledged", order.State())
	}
	if order.OrderID() != "oid-1" {
		t.Errorf("orderId got=%q want=%q", order.OrderID(), "oid-1")
	}
	if order.StatusLabel() != "Received" {
		t.Errorf("status label got=%q want=%q", order.StatusLabel(), "Received")
	}

	order.MarkCancelRequested()
	if order.State() != OrderStateCancelRequested {
		t.Fatalf("state got=%v want=CancelRequested", order.State())
	}
	order.MarkCancelled(json.RawMessage(`{"orderId":"oid-1","status":7}`), "Cancelled")
	if order.State() != OrderStateCancelled {
		t.Fatalf("state got=%v want=Cancelled", order.State())
	}
}

func TestOrderRejection(t *testing.T) {
	order, err := NewOrder("VX_BTC-000", "buy", 1, "0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.MarkRejected("order price out of range", nil)

	if order.State() != OrderStateRejected {
		t.Fatalf("state got=%v want=Rejected", order.State())
	}
	if order.RejectReason() != "order price out of range" {
		t.Errorf("reason got=%q", order.RejectReason())
	}
	if order.NetworkResponse() != nil {
		t.Error("本地拒绝不应写入网络回执")
	}
}

func TestHistoryOrderID(t *testing.T) {
	h := HistoryOrder{Meta: map[string]any{"orderId": "abc"}}
	if h.OrderID() != "abc" {
		t.Errorf("OrderID got=%q want=%q", h.OrderID(), "abc")
	}
	if (HistoryOrder{}).OrderID() != "" {
		t.Error("无 Meta 时订单号应为空")
	}
}

func TestOrderStateString(t *testing.T) {
	if OrderStatePrepared.String() != "Prepared" {
		t.Errorf("got=%q", OrderStatePrepared.String())
	}
	if OrderState(99).String() != "Invalid" {
		t.Errorf("越界状态名 got=%q", OrderState(99).String())
	}
}
